package source

import (
	"errors"
	"time"

	"github.com/theirongolddev/revdash/internal/model"
)

// DefaultFileName is the table looked up in the working directory when no
// path is configured.
const DefaultFileName = "fiscal_year_revenue.csv"

var (
	// ErrMissingColumn indicates the header lacks a required column.
	ErrMissingColumn = errors.New("source: missing required column")
	// ErrMalformed indicates a cell could not be parsed into its column type.
	ErrMalformed = errors.New("source: malformed value")
)

// DataFile is a located table on disk.
type DataFile struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// ParseResult holds the output of parsing a single table.
type ParseResult struct {
	Records []model.Record
	Filled  FillCounts
	Err     error
}

// FillCounts tracks how many cells received a sentinel per column.
type FillCounts struct {
	State   int
	County  int
	Product int
}

// Total returns the number of filled cells across all columns.
func (f FillCounts) Total() int {
	return f.State + f.County + f.Product
}

// ProgressFunc is called while records are converted.
// current is the number of rows processed so far, total is the row count.
type ProgressFunc func(current, total int)
