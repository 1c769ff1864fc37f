// Command hexagons generates a hex terrain map, optionally paints a route,
// stores the run and serves it over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/AksiLipe/hexagons/internal/api"
	"github.com/AksiLipe/hexagons/internal/config"
	"github.com/AksiLipe/hexagons/internal/entropy"
	"github.com/AksiLipe/hexagons/internal/logging"
	"github.com/AksiLipe/hexagons/internal/persistence"
	"github.com/AksiLipe/hexagons/internal/route"
	"github.com/AksiLipe/hexagons/internal/world"
)

func main() {
	if err := run(); err != nil {
		slog.Error("hexagons failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logging.Setup(os.Stdout, cfg.Log.Level)

	// ── Seed ──────────────────────────────────────────────────────────
	cfg.World.Seed = entropy.ResolveSeed(cfg.World.Seed, entropy.NewClient(cfg.Entropy.RandomOrgKey))
	slog.Info("seed resolved", "seed", cfg.World.Seed)

	// ── World Map ─────────────────────────────────────────────────────
	slog.Info("generating world map...", "radius", cfg.World.Radius)
	worldMap, disk, err := world.Generate(cfg.World)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	slog.Info("lattice built",
		"cells", humanize.Comma(int64(len(worldMap.Cells))),
		"disk_cells", humanize.Comma(int64(len(disk))),
	)

	// ── Route ─────────────────────────────────────────────────────────
	routed := false
	if cfg.Route.Enabled {
		path, err := route.Solve(worldMap, cfg.Route.From, cfg.Route.To)
		if err != nil {
			return fmt.Errorf("route: %w", err)
		}
		worldMap, err = world.ApplyRoute(worldMap, path)
		if err != nil {
			return fmt.Errorf("route: %w", err)
		}
		routed = true
		slog.Info("route painted", "from", cfg.Route.From, "to", cfg.Route.To, "steps", len(path))
	}

	logTerrain(worldMap, disk)

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	runID := ""
	if cfg.Database.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
		db, err = persistence.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		runID, err = db.SaveRun(cfg.World, routed, worldMap)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		if err := db.SaveMeta("last_run", runID); err != nil {
			slog.Warn("save meta failed", "error", err)
		}
	}

	if !cfg.API.Enabled {
		fmt.Printf("\nGenerated %s hexes (radius %d, seed %d).\n",
			humanize.Comma(int64(len(disk))), worldMap.Radius, cfg.World.Seed)
		return nil
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Map:        worldMap,
		Disk:       disk,
		Seed:       cfg.World.Seed,
		RunID:      runID,
		DB:         db,
		Port:       cfg.API.Port,
		RouteLimit: cfg.API.RouteRateLimit,

		TrustedProxies: cfg.API.TrustedProxies,
	}
	apiServer.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.API.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	return apiServer.Stop()
}

// logTerrain logs the disk terrain distribution in code order.
func logTerrain(m *world.Map, disk []int) {
	counts := world.TerrainCounts(m, disk)
	codes := make([]world.Terrain, 0, len(counts))
	for t := range counts {
		codes = append(codes, t)
	}
	slices.Sort(codes)
	for _, t := range codes {
		slog.Info("terrain", "type", world.TerrainName(t), "count", humanize.Comma(int64(counts[t])))
	}
}
