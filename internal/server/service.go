// Package server provides the read-only HTTP API over a loaded dataset.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/theirongolddev/revdash/internal/geo"
	"github.com/theirongolddev/revdash/internal/pipeline"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr string
	// MaxRows caps /v1/rows responses when no limit is given.
	MaxRows int
	Logger  *slog.Logger
	// LoadAtlas, when set, is called once in the background to fetch county
	// boundaries. Failures only affect county names.
	LoadAtlas func(ctx context.Context) (*geo.Atlas, error)
}

// Status is served at /v1/status.
type Status struct {
	PID          int       `json:"pid"`
	Addr         string    `json:"addr"`
	StartedAt    time.Time `json:"started_at"`
	Source       string    `json:"source"`
	LoadedAt     time.Time `json:"loaded_at"`
	Rows         int       `json:"rows"`
	KnownRows    int       `json:"known_rows"`
	Requests     int64     `json:"requests"`
	MapCounties  int       `json:"map_counties"`
	MapError     string    `json:"map_error,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	UptimeSecond int64     `json:"uptime_sec"`
}

// Service serves one immutable snapshot. Handlers share it without locking;
// only the counters and the boundary atlas are guarded.
type Service struct {
	cfg  Config
	snap *pipeline.Snapshot

	mu        sync.RWMutex
	startedAt time.Time
	requests  int64
	lastError string
	atlas     *geo.Atlas
	mapError  string
}

// New returns a server for snap with the provided config.
func New(cfg Config, snap *pipeline.Snapshot) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.MaxRows < 1 {
		cfg.MaxRows = 1000
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		snap:      snap,
		startedAt: time.Now(),
	}
}

// Handler returns the API routes wrapped in request logging.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/options", s.handleOptions)
	mux.HandleFunc("GET /v1/view", s.handleView)
	mux.HandleFunc("GET /v1/rows", s.handleRows)
	mux.HandleFunc("GET /v1/export.xlsx", s.handleExport)
	mux.HandleFunc("GET /v1/charts/{view}/{file}", s.handleChart)
	return requestLogging(s.cfg.Logger, s.countRequest, mux)
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if s.cfg.LoadAtlas != nil {
		go s.loadAtlas(ctx)
	}

	s.cfg.Logger.Info("server_started",
		slog.String("addr", s.cfg.Addr),
		slog.String("source", s.snap.Source),
		slog.Int("rows", len(s.snap.All)))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) loadAtlas(ctx context.Context) {
	atlas, err := s.cfg.LoadAtlas(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.mapError = err.Error()
		s.cfg.Logger.Warn("boundary data unavailable", slog.String("error", err.Error()))
		return
	}
	s.atlas = atlas
	if atlas.Err != nil {
		s.mapError = atlas.Err.Error()
	}
}

// SetAtlas installs boundary data directly.
func (s *Service) SetAtlas(atlas *geo.Atlas) {
	s.mu.Lock()
	s.atlas = atlas
	s.mu.Unlock()
}

func (s *Service) currentAtlas() *geo.Atlas {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.atlas
}

func (s *Service) countRequest() {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		PID:          os.Getpid(),
		Addr:         s.cfg.Addr,
		StartedAt:    s.startedAt,
		Source:       s.snap.Source,
		LoadedAt:     s.snap.LoadedAt,
		Rows:         len(s.snap.All),
		KnownRows:    len(s.snap.Known),
		Requests:     s.requests,
		MapCounties:  s.atlas.Len(),
		MapError:     s.mapError,
		LastError:    s.lastError,
		UptimeSecond: int64(time.Since(s.startedAt).Seconds()),
	}
}
