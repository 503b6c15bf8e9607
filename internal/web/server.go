package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"pingwatch/internal/models"
)

// aggregateTTL bounds how stale cached aggregates may be
const aggregateTTL = 30 * time.Second

// Server handles web requests
type Server struct {
	db     models.Database
	port   int
	cache  *cache.Cache
	server *http.Server
}

// New creates a new web server
func New(db models.Database, port int) *Server {
	s := &Server{
		db:    db,
		port:  port,
		cache: cache.New(aggregateTTL, time.Minute),
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/recent", s.handleRecent)
	mux.HandleFunc("/api/latest", s.handleLatest)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/outages", s.handleOutages)
	mux.HandleFunc("/api/heatmap", s.handleHeatmap)
	mux.HandleFunc("/api/patterns", s.handlePatterns)

	return mux
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	slog.Info("Web server starting",
		slog.Int("port", s.port))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
