// Package api serves a generated map over HTTP for renderers and route tools.
// All endpoints are GET and read-only; route requests paint a copy.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AksiLipe/hexagons/internal/persistence"
	"github.com/AksiLipe/hexagons/internal/render"
	"github.com/AksiLipe/hexagons/internal/route"
	"github.com/AksiLipe/hexagons/internal/world"
)

// Server serves one generated map. Map is never modified after Start.
type Server struct {
	Map        *world.Map
	Disk       []int
	Seed       int64
	RunID      string
	DB         *persistence.DB // Optional; enables /api/v1/runs
	Port       int
	RouteLimit int // Route requests per IP per hour

	// Peers allowed to set X-Forwarded-For for rate limiting.
	TrustedProxies []string

	srv *http.Server
}

// Handler builds the API mux.
func (s *Server) Handler() http.Handler {
	routeLimiter := NewRateLimiter(s.RouteLimit, time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", getOnly(s.handleStatus))
	mux.HandleFunc("/api/v1/map", getOnly(s.handleMap))
	mux.HandleFunc("/api/v1/map/", getOnly(s.handleCell))
	mux.HandleFunc("/api/v1/route", getOnly(RateLimitMiddleware(routeLimiter, s.TrustedProxies, s.handleRoute)))
	mux.HandleFunc("/api/v1/runs", getOnly(s.handleRuns))
	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	slog.Info("HTTP API starting", "addr", addr, "run", s.RunID)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Stop closes the listener started by Start.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Close()
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	terrain := make(map[string]int)
	for t, n := range world.TerrainCounts(s.Map, s.Disk) {
		terrain[world.TerrainName(t)] = n
	}

	writeJSON(w, map[string]any{
		"name":       "hexagons",
		"run_id":     s.RunID,
		"seed":       s.Seed,
		"radius":     s.Map.Radius,
		"cells":      len(s.Map.Cells),
		"disk_cells": len(s.Disk),
		"terrain":    terrain,
	})
}

// handleMap returns the hex disk for the renderer.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, render.Build(s.Map, s.Disk, s.Seed))
}

// handleCell returns one cell by array index with its in-lattice neighbours.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/map/")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "invalid cell index", http.StatusBadRequest)
		return
	}
	if idx < 0 || idx >= len(s.Map.Cells) {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}

	c := s.Map.Cells[idx]
	neighbors := make([]int, 0, 6)
	for _, nb := range c.Coord.Neighbors() {
		if !world.IsValid(nb, s.Map.Radius) {
			continue
		}
		if ni, ok := s.Map.IndexOf(nb); ok {
			neighbors = append(neighbors, ni)
		}
	}

	writeJSON(w, map[string]any{
		"index":     idx,
		"q":         c.Coord.Q,
		"r":         c.Coord.R,
		"s":         c.Coord.S,
		"terrain":   int(c.Terrain),
		"label":     world.TerrainName(c.Terrain),
		"on_disk":   s.Map.OnDisk(idx),
		"neighbors": neighbors,
	})
}

// handleRoute solves a path between two disk cells and returns the map with
// the route painted on a copy.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	from, errFrom := strconv.Atoi(r.URL.Query().Get("from"))
	to, errTo := strconv.Atoi(r.URL.Query().Get("to"))
	if errFrom != nil || errTo != nil {
		http.Error(w, "from and to must be cell indices", http.StatusBadRequest)
		return
	}

	path, err := route.Solve(s.Map, from, to)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, route.ErrNotOnDisk) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	routed, err := world.ApplyRoute(s.Map, path)
	if err != nil {
		slog.Error("apply route", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Debug("route solved", "from", from, "to", to, "steps", len(path))
	writeJSON(w, map[string]any{
		"path": path,
		"cost": route.PathCost(s.Map, path),
		"map":  render.Build(routed, s.Disk, s.Seed),
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusNotFound)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	runs, err := s.DB.Runs(limit)
	if err != nil {
		slog.Error("list runs", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
