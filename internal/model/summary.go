package model

import "time"

// RefreshSummary captures metrics from a single refresh run.
type RefreshSummary struct {
	BatchID             string
	SourceRows          map[string]int // raw rows per source name
	Admissions          int            // IP fact rows after merge
	ChargeLines         int
	OPVisits            int
	DuplicatesUnmatched int // admission numbers dropped by the first-wins pass
	DurationLoad        time.Duration
	DurationClean       time.Duration
	DurationMerge       time.Duration
	DurationTotal       time.Duration
}
