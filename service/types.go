package service

import "github.com/jayantmadugula/corpus-parsing-scripts/store"

// Dataset names recognized by the converter.
const (
	DatasetSemEval16         = "semeval16"
	DatasetRestaurantReviews = "restaurantreviews"
	DatasetSOCC              = "socc"
	DatasetSST               = "sst"
)

// Names lists the recognized dataset names in stable order.
func Names() []string {
	return []string{DatasetSemEval16, DatasetRestaurantReviews, DatasetSOCC, DatasetSST}
}

// DatasetSpec names one dataset run: where its raw files live and where the
// destination database goes.
type DatasetSpec struct {
	Name   string
	Path   string
	DBPath string
}

// ResolveRequest specifies how dataset specs should be resolved.
// RequirePath demands an input location (convert needs one, stats/check
// only need the destination).
type ResolveRequest struct {
	Dataset     string
	InputPath   string
	DBPath      string
	ConfigPath  string
	All         bool
	RequirePath bool
}

// ConvertRequest defines inputs for one dataset conversion.
type ConvertRequest struct {
	Dataset   string
	InputPath string
	DBPath    string
	Logf      func(format string, args ...any)
	Progress  func(dataset string, documents int)
}

// ConvertResult summarizes a completed conversion.
type ConvertResult struct {
	Dataset     string
	Assets      int
	Documents   int
	Segments    int
	Annotations int
}

// StatsRequest defines inputs for store summary queries.
type StatsRequest struct {
	DBPath string
}

// StatsResult describes a destination store.
type StatsResult struct {
	Dataset string
	Counts  store.Counts
}

// CheckRequest defines inputs for the integrity audit.
type CheckRequest struct {
	DBPath string
}

// CheckResult reports the audit outcome.
type CheckResult struct {
	Dataset string
	Stats   store.IntegrityStats
}
