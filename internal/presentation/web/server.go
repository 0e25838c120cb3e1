// Package web serves the sensor charts and a JSON view of the latest snapshot.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/util"
	"github.com/rs/cors"
)

// SnapshotSource provides the newest refresh result.
type SnapshotSource interface {
	Latest() (*model.Snapshot, bool)
}

// Config holds the web dashboard settings.
type Config struct {
	Addr string
	// Location timestamps are shown in; nil means UTC.
	Location   *time.Location
	TimeFormat string
	Groups     []model.ChartGroup
	// RefreshSeconds is the page meta refresh period.
	RefreshSeconds int
	// AllowedOrigins for the JSON API; empty allows any origin.
	AllowedOrigins []string
	ChartWidth     int
	ChartHeight    int
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8080"
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if len(c.Groups) == 0 {
		c.Groups = model.DefaultChartGroups
	}
	if c.RefreshSeconds <= 0 {
		c.RefreshSeconds = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	return c
}

// Server is the HTTP front end of the dashboard.
type Server struct {
	cfg   Config
	snaps SnapshotSource
}

func NewServer(cfg Config, snaps SnapshotSource) *Server {
	return &Server{cfg: cfg.withDefaults(), snaps: snaps}
}

// Handler returns the routed handler with CORS applied to the JSON API.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/series", s.handleSeries)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Content-Type"},
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", c.Handler(api))
	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	return logRequests(mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		util.LogInfof("Web dashboard listening on http://%s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		util.LogWith(util.LevelDebug, "http request",
			util.F("method", r.Method),
			util.F("path", r.URL.Path),
			util.F("status", rec.status),
			util.F("duration", time.Since(start)))
	})
}
