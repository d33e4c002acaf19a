package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/monthlydata"
	"github.com/theirongolddev/runway/internal/source"
	"github.com/theirongolddev/runway/internal/store"
)

// HistoryStore is the part of the store history resolution needs.
type HistoryStore interface {
	LoadMonths(startupID string) ([]model.MonthlyRecord, error)
}

// HistoryOrigin names where a run's history came from.
type HistoryOrigin string

// History origins, in resolution order.
const (
	OriginFile   HistoryOrigin = "file"
	OriginStore  HistoryOrigin = "store"
	OriginRemote HistoryOrigin = "remote"
	OriginSeed   HistoryOrigin = "seed"
)

// HistoryOptions selects where LoadHistory looks.
type HistoryOptions struct {
	File      string
	StartupID string
	Store     HistoryStore
	// Fetcher is consulted only when Remote is set.
	Fetcher monthlydata.Fetcher
	Remote  bool
}

// History is a resolved historical series.
type History struct {
	Records []model.MonthlyRecord
	Origin  HistoryOrigin
	Warning string
}

// LoadHistory resolves the history for a run: an explicit file wins, then
// months stored locally for the startup, then the user-data service, then the
// seed series.
func LoadHistory(ctx context.Context, opts HistoryOptions) (History, error) {
	if opts.File != "" {
		records, err := source.LoadFile(opts.File)
		if err != nil {
			return History{}, err
		}
		if len(records) > 0 {
			return History{Records: records, Origin: OriginFile}, nil
		}
		return History{
			Records: source.SeedHistory(),
			Origin:  OriginSeed,
			Warning: fmt.Sprintf("%s has no months. Using default values.", filepath.Base(opts.File)),
		}, nil
	}

	if opts.Store != nil {
		records, err := opts.Store.LoadMonths(opts.StartupID)
		if err != nil {
			return History{}, fmt.Errorf("loading stored history: %w", err)
		}
		if len(records) > 0 {
			return History{Records: records, Origin: OriginStore}, nil
		}
	}

	if opts.Remote {
		res := monthlydata.Resolve(ctx, opts.Fetcher, opts.StartupID)
		h := History{Records: res.Records, Warning: res.Warning, Origin: OriginSeed}
		if res.Origin == monthlydata.OriginRemote {
			h.Origin = OriginRemote
		}
		return h, nil
	}

	return History{Records: source.SeedHistory(), Origin: OriginSeed}, nil
}

// ImportResult reports what ImportDir did.
type ImportResult struct {
	TotalFiles  int
	Imported    int
	Unchanged   int
	FileErrors  int
	Months      int
	StartupIDs  []string
	FirstErrors []error
}

// ImportDir loads every history file in dir into st, one startup per file.
// Files whose mtime and size match the last import are skipped.
func ImportDir(dir string, st *store.Store, progressFn ProgressFunc) (*ImportResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &ImportResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := st.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading tracked files: %w", err)
	}

	type pending struct {
		file  source.DiscoveredFile
		mtime int64
		size  int64
	}
	var toParse []pending
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors++
			continue
		}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			result.Unchanged++
			continue
		}
		toParse = append(toParse, pending{file: f, mtime: info.ModTime().UnixNano(), size: info.Size()})
	}

	if len(toParse) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(toParse) {
		numWorkers = len(toParse)
	}

	type parsed struct {
		records []model.MonthlyRecord
		err     error
	}
	work := make(chan int, len(toParse))
	results := make([]parsed, len(toParse))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range toParse {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				recs, err := source.LoadFile(toParse[idx].file.Path)
				results[idx] = parsed{records: recs, err: err}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+result.Unchanged, result.TotalFiles)
				}
			}
		}()
	}

	wg.Wait()

	// sqlite writes stay on this goroutine
	for i, p := range results {
		f := toParse[i]
		if p.err != nil {
			result.FileErrors++
			if len(result.FirstErrors) < 5 {
				result.FirstErrors = append(result.FirstErrors, p.err)
			}
			continue
		}
		if err := st.ReplaceMonths(f.file.StartupID, p.records, f.file.Path, f.mtime, f.size); err != nil {
			return result, fmt.Errorf("storing %s: %w", f.file.StartupID, err)
		}
		result.Imported++
		result.Months += len(p.records)
		result.StartupIDs = append(result.StartupIDs, f.file.StartupID)
	}

	return result, nil
}

// CacheDir returns the platform-appropriate data directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "runway")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "runway")
}

// CachePath returns the full path to the runway database.
func CachePath() string {
	return filepath.Join(CacheDir(), "runway.db")
}
