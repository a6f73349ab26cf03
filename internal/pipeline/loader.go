package pipeline

import (
	"fmt"

	"github.com/theirongolddev/revdash/internal/source"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Snapshot  *Snapshot
	File      source.DataFile
	Filled    source.FillCounts
	FromCache bool
	// CacheErr is set when the cache could not be read or written and the
	// load fell back to parsing. The load itself still succeeded.
	CacheErr error
}

// ProgressFunc is called during loading to report progress.
// current is the number of rows processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load locates and parses the table at path and builds a snapshot from it.
func Load(path string, progressFn ProgressFunc) (*LoadResult, error) {
	df, err := source.Locate(path)
	if err != nil {
		return nil, err
	}
	return parse(df, progressFn)
}

func parse(df source.DataFile, progressFn ProgressFunc) (*LoadResult, error) {
	pr := source.ParseFile(df, source.ProgressFunc(progressFn))
	if pr.Err != nil {
		return nil, fmt.Errorf("parsing %s: %w", df.Path, pr.Err)
	}

	return &LoadResult{
		Snapshot: NewSnapshot(pr.Records, df.Path),
		File:     df,
		Filled:   pr.Filled,
	}, nil
}
