package monthlydata

import "github.com/theirongolddev/runway/internal/model"

// Startup is the subset of the business profile runway displays.
type Startup struct {
	ID          string `json:"_id"`
	CompanyName string `json:"companyName"`
	Name        string `json:"name"`
}

// DisplayName returns the company name, the plain name, or "Startup".
func (s Startup) DisplayName() string {
	switch {
	case s.CompanyName != "":
		return s.CompanyName
	case s.Name != "":
		return s.Name
	}
	return "Startup"
}

// Origin names where a resolved history came from.
type Origin string

// History origins.
const (
	OriginRemote Origin = "remote"
	OriginSeed   Origin = "seed"
)

// Resolution is the history a run should use.
type Resolution struct {
	Records []model.MonthlyRecord
	Origin  Origin
	// Warning explains a fallback to the seed series. Empty when the remote
	// history was used.
	Warning string
	// Err is the fetch failure behind the warning, if any.
	Err error
}
