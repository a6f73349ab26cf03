package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/revdash/internal/model"
)

const header = "Fiscal Year,State,County,Product,Land Class,Revenue Type,Commodity,Revenue,FIPS Code"

// writeTable creates a temp CSV file and returns a located DataFile for it.
func writeTable(t *testing.T, lines ...string) DataFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "revenue.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	df, err := Locate(path)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	return df
}

func TestParseFile_FillsSentinels(t *testing.T) {
	df := writeTable(t,
		header,
		"2015,TX,Harris,Oil,Federal,Royalties,Oil,100,48201",
		"2015,,Harris,Oil,Federal,Royalties,Oil,50,48201",
		"2016,WY,,,Federal,Rents,Coal,25,",
	)

	result := ParseFile(df, nil)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(result.Records))
	}

	if got := result.Records[1].State; got != model.UnknownState {
		t.Errorf("State = %q, want %q", got, model.UnknownState)
	}
	if got := result.Records[2].County; got != model.UnknownCounty {
		t.Errorf("County = %q, want %q", got, model.UnknownCounty)
	}
	if got := result.Records[2].Product; got != model.UnspecifiedProduct {
		t.Errorf("Product = %q, want %q", got, model.UnspecifiedProduct)
	}
	if got := result.Records[2].FIPS; got != "" {
		t.Errorf("FIPS = %q, want empty", got)
	}

	if result.Filled.State != 1 || result.Filled.County != 1 || result.Filled.Product != 1 {
		t.Errorf("Filled = %+v, want one per column", result.Filled)
	}
	if result.Filled.Total() != 3 {
		t.Errorf("Filled.Total() = %d, want 3", result.Filled.Total())
	}

	for i, r := range result.Records {
		if r.State == "" || r.County == "" || r.Product == "" {
			t.Errorf("record %d has an empty categorical field: %+v", i, r)
		}
	}
}

func TestParseFile_WhitespaceCellsAreMissing(t *testing.T) {
	df := writeTable(t,
		header,
		"2015,  ,\t,   ,Federal,Royalties,Oil,100,48201",
		"2016, WY , Campbell ,Coal,  ,Rents,Coal,25,56005",
	)

	result := ParseFile(df, nil)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}

	blank := result.Records[0]
	if blank.State != model.UnknownState || blank.County != model.UnknownCounty || blank.Product != model.UnspecifiedProduct {
		t.Errorf("whitespace cells not filled: %+v", blank)
	}
	if result.Filled.Total() != 3 {
		t.Errorf("Filled = %+v, want one per column", result.Filled)
	}

	padded := result.Records[1]
	if padded.State != "WY" || padded.County != "Campbell" {
		t.Errorf("values not trimmed: %+v", padded)
	}
	if padded.LandClass != "" {
		t.Errorf("LandClass = %q, want the empty category", padded.LandClass)
	}
}

func TestParseFile_KeepsLeadingZeros(t *testing.T) {
	df := writeTable(t,
		header,
		"2020,AL,Autauga,Gas,Federal,Royalties,Gas,12.5,01001",
	)

	result := ParseFile(df, nil)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if got := result.Records[0].FIPS; got != "01001" {
		t.Errorf("FIPS = %q, want 01001", got)
	}
	if got := result.Records[0].Revenue; got != 12.5 {
		t.Errorf("Revenue = %v, want 12.5", got)
	}
}

func TestParseFile_ColumnOrderAndBOM(t *testing.T) {
	df := writeTable(t,
		"\ufeffRevenue,FIPS Code,Commodity,Revenue Type,Land Class,Product,County,State,Fiscal Year,Extra",
		`"1,250.75",48201,Oil,Royalties,Federal,Oil,Harris,TX,2019.0,ignored`,
	)

	result := ParseFile(df, nil)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	r := result.Records[0]
	if r.FiscalYear != 2019 {
		t.Errorf("FiscalYear = %d, want 2019", r.FiscalYear)
	}
	if r.Revenue != 1250.75 {
		t.Errorf("Revenue = %v, want 1250.75", r.Revenue)
	}
	if r.State != "TX" || r.County != "Harris" {
		t.Errorf("State/County = %q/%q, want TX/Harris", r.State, r.County)
	}
}

func TestParseFile_MissingColumn(t *testing.T) {
	df := writeTable(t,
		"Fiscal Year,State,County,Product,Land Class,Revenue Type,Commodity,Revenue",
		"2015,TX,Harris,Oil,Federal,Royalties,Oil,100",
	)

	result := ParseFile(df, nil)
	if !errors.Is(result.Err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", result.Err)
	}
}

func TestParseFile_MalformedValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"text year", "twenty,TX,Harris,Oil,Federal,Royalties,Oil,100,48201"},
		{"missing year", ",TX,Harris,Oil,Federal,Royalties,Oil,100,48201"},
		{"text revenue", "2015,TX,Harris,Oil,Federal,Royalties,Oil,lots,48201"},
		{"missing revenue", "2015,TX,Harris,Oil,Federal,Royalties,Oil,,48201"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := writeTable(t, header, tt.row)
			result := ParseFile(df, nil)
			if !errors.Is(result.Err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", result.Err)
			}
			if !strings.Contains(result.Err.Error(), "row 1") {
				t.Errorf("error %q does not name the row", result.Err)
			}
		})
	}
}

func TestParseFile_RaggedRows(t *testing.T) {
	df := writeTable(t,
		header,
		"2015,TX,Harris",
	)

	result := ParseFile(df, nil)
	if result.Err == nil {
		t.Fatal("expected an error for a ragged row")
	}
}

func TestParseFile_ReportsProgress(t *testing.T) {
	lines := []string{header}
	for i := 0; i < 2500; i++ {
		lines = append(lines, "2015,TX,Harris,Oil,Federal,Royalties,Oil,1,48201")
	}
	df := writeTable(t, lines...)

	var calls, last int
	result := ParseFile(df, func(current, total int) {
		calls++
		last = current
		if total != 2500 {
			t.Errorf("total = %d, want 2500", total)
		}
	})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if calls != 3 {
		t.Errorf("progress calls = %d, want 3", calls)
	}
	if last != 2500 {
		t.Errorf("last progress = %d, want 2500", last)
	}
}

func TestLocate_Errors(t *testing.T) {
	if _, err := Locate(filepath.Join(t.TempDir(), "nope.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want ErrNotExist", err)
	}
	if _, err := Locate(t.TempDir()); err == nil {
		t.Error("directory: expected an error")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(present, []byte(header+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := Discover("", filepath.Join(dir, "missing.csv"), present); got != present {
		t.Errorf("Discover = %q, want %q", got, present)
	}
	if got := Discover(filepath.Join(dir, "missing.csv")); got != DefaultFileName {
		t.Errorf("Discover fallback = %q, want %q", got, DefaultFileName)
	}
}
