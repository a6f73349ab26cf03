// Package export writes dashboard views to files: an XLSX workbook of every
// grouping plus the filtered rows, and PNG renderings of each chart.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/pipeline"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// Meta describes where a view model came from.
type Meta struct {
	Source   string
	LoadedAt time.Time
}

type sheetWriter struct {
	f      *excelize.File
	bold   int
	money  int
	pct    int
	errors []error
}

func (w *sheetWriter) check(err error) {
	if err != nil {
		w.errors = append(w.errors, err)
	}
}

// Workbook builds an in-memory workbook: a summary sheet, then one sheet per
// grouping and one for the raw rows of each view.
func Workbook(vm *pipeline.ViewModel, meta Meta) (*excelize.File, error) {
	f := excelize.NewFile()
	w := &sheetWriter{f: f}

	var err error
	if w.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	if w.money, err = f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil { // #,##0.00
		return nil, err
	}
	if w.pct, err = f.NewStyle(&excelize.Style{NumFmt: 10}); err != nil { // 0.00%
		return nil, err
	}

	w.check(f.SetSheetName("Sheet1", summarySheet))
	w.writeSummary(vm, meta)

	for _, p := range []*pipeline.Panel{&vm.WithUnknowns, &vm.WithoutUnknowns} {
		prefix := "With"
		if p.View == pipeline.ViewWithout {
			prefix = "Without"
		}
		w.writeYears(prefix+" Years", p.ByYear)
		w.writeGroups(prefix+" Land Classes", "Land Class", p.ByLandClass)
		w.writeGroups(prefix+" States", "State", p.ByState)
		w.writeGroups(prefix+" Commodities", "Commodity", p.ByCommodity)
		w.writeCounties(prefix+" Counties", p.ByCounty)
		w.writeRows(prefix+" Rows", p.Rows)
	}

	f.SetActiveSheet(0)
	if len(w.errors) > 0 {
		_ = f.Close()
		return nil, fmt.Errorf("building workbook: %w", w.errors[0])
	}
	return f, nil
}

// WriteXLSX streams the workbook to out.
func WriteXLSX(out io.Writer, vm *pipeline.ViewModel, meta Meta) error {
	f, err := Workbook(vm, meta)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(out)
}

// SaveXLSX writes the workbook to path.
func SaveXLSX(path string, vm *pipeline.ViewModel, meta Meta) error {
	f, err := Workbook(vm, meta)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func (w *sheetWriter) newSheet(name string, headers []string, widths ...float64) {
	if _, err := w.f.NewSheet(name); err != nil {
		w.check(err)
		return
	}
	w.header(name, 1, headers)
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		w.check(err)
		w.check(w.f.SetColWidth(name, col, col, width))
	}
	w.check(w.f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}))
}

func (w *sheetWriter) header(sheet string, row int, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		w.check(w.f.SetCellValue(sheet, cell, h))
	}
	if len(headers) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(headers), row)
		w.check(w.f.SetCellStyle(sheet, first, last, w.bold))
	}
}

func (w *sheetWriter) row(sheet string, row int, values ...interface{}) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	w.check(w.f.SetSheetRow(sheet, cell, &values))
}

func (w *sheetWriter) styleColumn(sheet string, col, firstRow, lastRow, style int) {
	if lastRow < firstRow {
		return
	}
	top, _ := excelize.CoordinatesToCellName(col, firstRow)
	bottom, _ := excelize.CoordinatesToCellName(col, lastRow)
	w.check(w.f.SetCellStyle(sheet, top, bottom, style))
}

func (w *sheetWriter) writeSummary(vm *pipeline.ViewModel, meta Meta) {
	s := summarySheet
	w.check(w.f.SetCellValue(s, "A1", "Natural Resources Revenue Dashboard"))
	w.check(w.f.SetCellStyle(s, "A1", "A1", w.bold))
	w.row(s, 2, "Source", meta.Source)
	w.row(s, 3, "Loaded", meta.LoadedAt.Format(time.RFC3339))

	cfg := vm.Filter
	w.row(s, 5, "Filter")
	w.check(w.f.SetCellStyle(s, "A5", "A5", w.bold))
	w.row(s, 6, "Years", fmt.Sprintf("%d-%d", cfg.YearMin, cfg.YearMax))
	w.row(s, 7, "Revenue", fmt.Sprintf("%.2f to %.2f", cfg.RevenueMin, cfg.RevenueMax))
	w.row(s, 8, "Land classes", joinSet(cfg.LandClasses))
	w.row(s, 9, "Revenue types", joinSet(cfg.RevenueTypes))
	w.row(s, 10, "Commodities", joinSet(cfg.Commodities))

	w.header(s, 12, []string{"Metric", vm.WithUnknowns.Title, vm.WithoutUnknowns.Title})
	a, b := vm.WithUnknowns.Summary, vm.WithoutUnknowns.Summary
	w.row(s, 13, "Total revenue", a.TotalRevenue, b.TotalRevenue)
	w.row(s, 14, "Rows", a.Rows, b.Rows)
	w.row(s, 15, "First year", a.MinYear, b.MinYear)
	w.row(s, 16, "Last year", a.MaxYear, b.MaxYear)
	w.row(s, 17, "States", a.States, b.States)
	w.row(s, 18, "Counties", a.Counties, b.Counties)
	w.row(s, 19, "Commodities", a.Commodities, b.Commodities)
	w.check(w.f.SetCellStyle(s, "B13", "C13", w.money))
	w.check(w.f.SetColWidth(s, "A", "A", 18))
	w.check(w.f.SetColWidth(s, "B", "C", 22))
}

func (w *sheetWriter) writeYears(sheet string, years []model.YearTotal) {
	w.newSheet(sheet, []string{"Fiscal Year", "Revenue", "Rows"}, 12, 20, 10)
	for i, y := range years {
		w.row(sheet, i+2, y.Year, y.Revenue, y.Rows)
	}
	w.styleColumn(sheet, 2, 2, len(years)+1, w.money)
}

func (w *sheetWriter) writeGroups(sheet, keyName string, groups []model.GroupTotal) {
	w.newSheet(sheet, []string{keyName, "Revenue", "Share", "Rows"}, 28, 20, 10, 10)
	for i, g := range groups {
		w.row(sheet, i+2, g.Key, g.Revenue, g.Share, g.Rows)
	}
	w.styleColumn(sheet, 2, 2, len(groups)+1, w.money)
	w.styleColumn(sheet, 3, 2, len(groups)+1, w.pct)
}

func (w *sheetWriter) writeCounties(sheet string, counties []model.CountyTotal) {
	w.newSheet(sheet, []string{"FIPS Code", "County", "State", "Revenue", "Rows"}, 10, 24, 12, 20, 10)
	for i, c := range counties {
		w.row(sheet, i+2, c.FIPS, c.Name, c.State, c.Revenue, c.Rows)
	}
	w.styleColumn(sheet, 4, 2, len(counties)+1, w.money)
}

func (w *sheetWriter) writeRows(sheet string, records []model.Record) {
	w.newSheet(sheet, model.Columns, 12, 14, 18, 18, 18, 18, 18, 16, 10)
	for i, r := range records {
		w.row(sheet, i+2, r.FiscalYear, r.State, r.County, r.Product,
			r.LandClass, r.RevenueType, r.Commodity, r.Revenue, r.FIPS)
	}
	w.styleColumn(sheet, 8, 2, len(records)+1, w.money)
}

func joinSet(s pipeline.StringSet) string {
	values := s.Sorted()
	if len(values) == 0 {
		return "(none)"
	}
	for i, v := range values {
		values[i] = cli.Label(v)
	}
	return strings.Join(values, ", ")
}
