// Package source locates and parses the revenue CSV table.
package source

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/revdash/internal/model"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// nanValues are the cell spellings read as missing.
var nanValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "<nil>"}

const progressEvery = 1000

// ParseFile reads a revenue table and converts it to records, replacing
// missing State, County and Product cells with their sentinels.
//
// Every column is read as text so codes such as "01001" keep their leading
// zeros; Fiscal Year and Revenue are converted per row and any unparseable
// value fails the whole parse.
func ParseFile(df DataFile, progressFn ProgressFunc) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	frame := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
	if frame.Err != nil {
		return ParseResult{Err: fmt.Errorf("%w: reading %s: %v", ErrMalformed, df.Path, frame.Err)}
	}

	return convert(frame, progressFn)
}

func convert(frame dataframe.DataFrame, progressFn ProgressFunc) ParseResult {
	byName := make(map[string]string, frame.Ncol())
	for _, name := range frame.Names() {
		byName[normalizeHeader(name)] = name
	}

	cols := make(map[string]series.Series, len(model.Columns))
	for _, want := range model.Columns {
		actual, ok := byName[want]
		if !ok {
			return ParseResult{Err: fmt.Errorf("%w: %q", ErrMissingColumn, want)}
		}
		cols[want] = frame.Col(actual)
	}

	var (
		years     = cols[model.ColFiscalYear]
		states    = cols[model.ColState]
		counties  = cols[model.ColCounty]
		products  = cols[model.ColProduct]
		lands     = cols[model.ColLandClass]
		revTypes  = cols[model.ColRevenueType]
		commods   = cols[model.ColCommodity]
		revenues  = cols[model.ColRevenue]
		fipsCodes = cols[model.ColFIPS]
	)

	n := frame.Nrow()
	result := ParseResult{Records: make([]model.Record, 0, n)}

	for i := 0; i < n; i++ {
		row := i + 1

		rawYear, _ := cell(years, i)
		year, err := parseYear(rawYear)
		if err != nil {
			return ParseResult{Err: fmt.Errorf("%w: row %d, %s: %v", ErrMalformed, row, model.ColFiscalYear, err)}
		}

		rawRevenue, _ := cell(revenues, i)
		revenue, err := parseRevenue(rawRevenue)
		if err != nil {
			return ParseResult{Err: fmt.Errorf("%w: row %d, %s: %v", ErrMalformed, row, model.ColRevenue, err)}
		}

		rec := model.Record{
			FiscalYear: year,
			Revenue:    revenue,
		}

		var ok bool
		if rec.State, ok = cell(states, i); !ok {
			rec.State = model.UnknownState
			result.Filled.State++
		}
		if rec.County, ok = cell(counties, i); !ok {
			rec.County = model.UnknownCounty
			result.Filled.County++
		}
		if rec.Product, ok = cell(products, i); !ok {
			rec.Product = model.UnspecifiedProduct
			result.Filled.Product++
		}
		rec.LandClass, _ = cell(lands, i)
		rec.RevenueType, _ = cell(revTypes, i)
		rec.Commodity, _ = cell(commods, i)
		rec.FIPS, _ = cell(fipsCodes, i)

		result.Records = append(result.Records, rec)

		if progressFn != nil && (row%progressEvery == 0 || row == n) {
			progressFn(row, n)
		}
	}

	return result
}

// cell returns the trimmed text of a cell and whether it holds a value.
// Whitespace-only text counts as missing.
func cell(s series.Series, i int) (string, bool) {
	e := s.Elem(i)
	if e.IsNA() {
		return "", false
	}
	v := strings.TrimSpace(e.String())
	return v, v != ""
}

// normalizeHeader strips a UTF-8 byte order mark and surrounding space.
func normalizeHeader(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, errors.New("missing value")
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	// Spreadsheet exports sometimes write integral years as "2015.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a year", s)
	}
	return int(f), nil
}

func parseRevenue(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("missing value")
	}
	clean := strings.NewReplacer("$", "", ",", "").Replace(s)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}
