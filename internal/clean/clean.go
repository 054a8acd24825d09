// Package clean turns raw source tables into typed, deduplicated records.
// Each cleaner selects the columns it needs, applies the field cleaners from
// internal/normalize, renames to the pipeline's canonical vocabulary, and
// deduplicates on the source's natural key. Field-level parse failures
// degrade to missing values; a structurally broken table (missing column)
// aborts with a descriptive error.
package clean

import "time"

// newerOrSame reports whether candidate should replace current under the
// keep-most-recent policy: a dated row beats an undated one, a later date
// beats an earlier one, and ties go to the later occurrence.
func newerOrSame(candidate, current *time.Time) bool {
	if candidate == nil {
		return current == nil
	}
	if current == nil {
		return true
	}
	return !candidate.Before(*current)
}
