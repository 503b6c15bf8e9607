package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func intParam(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

// cached returns the value under key, loading it on a miss
func (s *Server) cached(key string, load func() (any, error)) (any, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, v)
	return v, nil
}

// handleRecent handles /api/recent requests
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	results, err := s.db.GetRecent(intParam(r, "hours", 24))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, results)
}

// handleLatest handles /api/latest requests
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	results, err := s.db.GetLatest()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, results)
}

// handleStats handles /api/stats requests
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	hours := intParam(r, "hours", 24)

	stats, err := s.cached(fmt.Sprintf("stats:%d", hours), func() (any, error) {
		return s.db.GetStats(hours)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, stats)
}

// handleOutages handles /api/outages requests
func (s *Server) handleOutages(w http.ResponseWriter, r *http.Request) {
	days := intParam(r, "days", 7)

	outages, err := s.cached(fmt.Sprintf("outages:%d", days), func() (any, error) {
		return s.db.GetOutages(days)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, outages)
}

// handleHeatmap handles /api/heatmap requests
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	days := intParam(r, "days", 30)

	points, err := s.cached(fmt.Sprintf("heatmap:%d", days), func() (any, error) {
		return s.db.GetHeatmapData(days)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, points)
}

// handlePatterns handles /api/patterns requests
func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	// Daily figures for one hour of the day
	hour, err := strconv.Atoi(r.URL.Query().Get("hour"))
	if err != nil || hour < 0 || hour > 23 {
		http.Error(w, "hour parameter required (0-23)", http.StatusBadRequest)
		return
	}

	patterns, err := s.cached(fmt.Sprintf("patterns:%d", hour), func() (any, error) {
		return s.db.GetPatterns(hour)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, patterns)
}
