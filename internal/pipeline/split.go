package pipeline

import "github.com/theirongolddev/revdash/internal/model"

// Split returns the two dataset views: every record, and only the records
// whose State, County and Product all hold real values.
// The with-unknowns view is the input slice itself; callers must not mutate it.
func Split(records []model.Record) (with, without []model.Record) {
	without = make([]model.Record, 0, len(records))
	for _, r := range records {
		if !r.HasUnknowns() {
			without = append(without, r)
		}
	}
	return records, without
}
