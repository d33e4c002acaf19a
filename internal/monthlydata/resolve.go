package monthlydata

import (
	"context"

	"github.com/theirongolddev/runway/internal/source"
)

// Resolve fetches the startup's history, falling back to the seed series when
// there is no fetcher, the fetch fails, or the service has no months yet.
func Resolve(ctx context.Context, f Fetcher, startupID string) Resolution {
	if f == nil || isNilClient(f) {
		return Resolution{Records: source.SeedHistory(), Origin: OriginSeed}
	}

	records, err := f.FetchMonthlyData(ctx, startupID)
	if err != nil {
		return Resolution{
			Records: source.SeedHistory(),
			Origin:  OriginSeed,
			Warning: "Failed to load monthly data from server. Using default values.",
			Err:     err,
		}
	}
	if len(records) == 0 {
		return Resolution{
			Records: source.SeedHistory(),
			Origin:  OriginSeed,
			Warning: "No monthly data on the server yet. Using default values.",
		}
	}
	return Resolution{Records: records, Origin: OriginRemote}
}

func isNilClient(f Fetcher) bool {
	c, ok := f.(*Client)
	return ok && c == nil
}
