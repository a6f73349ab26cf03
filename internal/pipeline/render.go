package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/revdash/internal/model"
)

// View selects one of the two dataset views.
type View string

const (
	ViewWith    View = "with"
	ViewWithout View = "without"
)

// ParseView accepts "with"/"without" and a few spellings of each.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "with", "with-unknowns", "all":
		return ViewWith, nil
	case "without", "without-unknowns", "known":
		return ViewWithout, nil
	}
	return "", fmt.Errorf("unknown view %q (want with or without)", s)
}

// Title is the display name of the view.
func (v View) Title() string {
	if v == ViewWithout {
		return "Without Unknowns"
	}
	return "With Unknowns"
}

// Snapshot is one loaded dataset. It is built once and never mutated, so it
// can be shared freely between goroutines.
type Snapshot struct {
	All      []model.Record // with-unknowns view
	Known    []model.Record // without-unknowns view
	Bounds   model.Bounds
	Source   string
	LoadedAt time.Time
}

// NewSnapshot splits records into both views and records their bounds.
func NewSnapshot(records []model.Record, sourcePath string) *Snapshot {
	all, known := Split(records)
	return &Snapshot{
		All:      all,
		Known:    known,
		Bounds:   ObservedBounds(all),
		Source:   sourcePath,
		LoadedAt: time.Now(),
	}
}

// DefaultFilter keeps every row of the snapshot.
func (s *Snapshot) DefaultFilter() FilterConfig {
	return DefaultFilter(s.Bounds)
}

// Records returns the records backing view v.
func (s *Snapshot) Records(v View) []model.Record {
	if v == ViewWithout {
		return s.Known
	}
	return s.All
}

// Panel is everything one dashboard tab displays for a filtered view.
type Panel struct {
	View        View                `json:"view"`
	Title       string              `json:"title"`
	Summary     model.Summary       `json:"summary"`
	ByYear      []model.YearTotal   `json:"by_year"`
	ByLandClass []model.GroupTotal  `json:"by_land_class"`
	ByState     []model.GroupTotal  `json:"by_state"`
	ByCommodity []model.GroupTotal  `json:"by_commodity"`
	ByCounty    []model.CountyTotal `json:"by_county"`
	Rows        []model.Record      `json:"rows,omitempty"`
}

// ChartTitle suffixes a chart name with the view it belongs to.
func (p Panel) ChartTitle(name string) string {
	return name + " (" + p.Title + ")"
}

// Empty reports whether the filters left no rows.
func (p Panel) Empty() bool {
	return p.Summary.Rows == 0
}

// AttachCountyNames fills county display names from boundary data.
// Codes missing from counties keep an empty name.
func (p *Panel) AttachCountyNames(counties map[string]model.County) {
	if len(counties) == 0 {
		return
	}
	for i := range p.ByCounty {
		if c, ok := counties[p.ByCounty[i].FIPS]; ok {
			p.ByCounty[i].Name = c.Name
		}
	}
}

// ViewModel is the full render output for one filter configuration.
type ViewModel struct {
	Filter          FilterConfig `json:"filter"`
	Bounds          model.Bounds `json:"bounds"`
	WithUnknowns    Panel        `json:"with_unknowns"`
	WithoutUnknowns Panel        `json:"without_unknowns"`
}

// Panel returns the panel for view v.
func (vm *ViewModel) Panel(v View) *Panel {
	if v == ViewWithout {
		return &vm.WithoutUnknowns
	}
	return &vm.WithUnknowns
}

// Render filters both views with cfg and aggregates each. It has no side
// effects: identical snapshots and configs give identical view models.
func (s *Snapshot) Render(cfg FilterConfig) ViewModel {
	return ViewModel{
		Filter:          cfg,
		Bounds:          s.Bounds,
		WithUnknowns:    s.RenderView(cfg, ViewWith),
		WithoutUnknowns: s.RenderView(cfg, ViewWithout),
	}
}

// RenderView builds the panel for a single view.
func (s *Snapshot) RenderView(cfg FilterConfig, v View) Panel {
	rows := Filter(s.Records(v), cfg)
	return Panel{
		View:        v,
		Title:       v.Title(),
		Summary:     Summarize(rows),
		ByYear:      AggregateByYear(rows),
		ByLandClass: AggregateByLandClass(rows),
		ByState:     AggregateByState(rows),
		ByCommodity: AggregateByCommodity(rows),
		ByCounty:    AggregateByCounty(rows),
		Rows:        rows,
	}
}
