package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/theirongolddev/revdash/internal/export"
	"github.com/theirongolddev/revdash/internal/logging"
	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/pipeline"
)

// Options is served at /v1/options.
type Options struct {
	Bounds  model.Bounds          `json:"bounds"`
	Default pipeline.FilterConfig `json:"default_filter"`
	Views   []pipeline.View       `json:"views"`
	Charts  []string              `json:"charts"`
}

// RowsResponse is served at /v1/rows.
type RowsResponse struct {
	View      pipeline.View  `json:"view"`
	Total     int            `json:"total"`
	Truncated bool           `json:"truncated"`
	Rows      []model.Record `json:"rows"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Options{
		Bounds:  s.snap.Bounds,
		Default: s.snap.DefaultFilter(),
		Views:   []pipeline.View{pipeline.ViewWith, pipeline.ViewWithout},
		Charts:  export.Charts,
	})
}

// render builds the view model for the request's filter and decorates
// county totals when boundary data is loaded.
func (s *Service) render(r *http.Request) (pipeline.ViewModel, error) {
	cfg, err := parseFilter(r.URL.Query(), s.snap.DefaultFilter())
	if err != nil {
		return pipeline.ViewModel{}, err
	}
	vm := s.snap.Render(cfg)
	if atlas := s.currentAtlas(); atlas != nil {
		vm.WithUnknowns.AttachCountyNames(atlas.Counties)
		vm.WithoutUnknowns.AttachCountyNames(atlas.Counties)
	}
	return vm, nil
}

func (s *Service) handleView(w http.ResponseWriter, r *http.Request) {
	vm, err := s.render(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	// Raw rows are served separately by /v1/rows.
	vm.WithUnknowns.Rows = nil
	vm.WithoutUnknowns.Rows = nil
	writeJSON(w, http.StatusOK, vm)
}

func (s *Service) handleRows(w http.ResponseWriter, r *http.Request) {
	view, err := pipeline.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	limit := s.cfg.MaxRows
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit: want a non-negative integer"))
			return
		}
		limit = n
	}

	cfg, err := parseFilter(r.URL.Query(), s.snap.DefaultFilter())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rows := pipeline.Filter(s.snap.Records(view), cfg)

	resp := RowsResponse{View: view, Total: len(rows), Rows: rows}
	if len(rows) > limit {
		resp.Rows = rows[:limit]
		resp.Truncated = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	vm, err := s.render(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	meta := export.Meta{Source: s.snap.Source, LoadedAt: s.snap.LoadedAt}
	if err := export.WriteXLSX(&buf, &vm, meta); err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="revenue.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) handleChart(w http.ResponseWriter, r *http.Request) {
	view, err := pipeline.ParseView(r.PathValue("view"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok || !knownChart(name) {
		writeError(w, http.StatusNotFound, errors.New("unknown chart"))
		return
	}

	vm, err := s.render(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	err = export.RenderChart(&buf, *vm.Panel(view), name)
	if errors.Is(err, export.ErrEmptyChart) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.recordError(err)
	logging.LogError(logging.FromContext(r.Context()), "request failed", err,
		slog.String("path", r.URL.Path))
	writeError(w, http.StatusInternalServerError, err)
}

func knownChart(name string) bool {
	for _, c := range export.Charts {
		if c == name {
			return true
		}
	}
	return false
}
