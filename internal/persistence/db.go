// Package persistence provides SQLite-based storage for generated maps.
package persistence

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/AksiLipe/hexagons/internal/world"
)

// ErrCellMismatch is returned when stored cells do not match the lattice
// rebuilt from the stored radius.
var ErrCellMismatch = errors.New("stored cells do not match lattice")

// DB wraps a SQLite connection for map persistence.
type DB struct {
	conn *sqlx.DB
}

// Run describes one stored generation.
type Run struct {
	ID             string    `db:"id" json:"id"`
	Seed           int64     `db:"seed" json:"seed"`
	Radius         int       `db:"radius" json:"radius"`
	RiverCount     int       `db:"river_count" json:"river_count"`
	MaxRiverLength int       `db:"max_river_length" json:"max_river_length"`
	HillCount      int       `db:"hill_count" json:"hill_count"`
	Routed         bool      `db:"routed" json:"routed"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type cellRow struct {
	Idx     int `db:"idx"`
	Q       int `db:"q"`
	R       int `db:"r"`
	S       int `db:"s"`
	Terrain int `db:"terrain"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		radius INTEGER NOT NULL,
		river_count INTEGER NOT NULL,
		max_river_length INTEGER NOT NULL,
		hill_count INTEGER NOT NULL,
		routed INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cells (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		s INTEGER NOT NULL,
		terrain INTEGER NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun stores the generation parameters and every cell of m in one
// transaction and returns the new run id.
func (db *DB) SaveRun(cfg world.GenConfig, routed bool, m *world.Map) (string, error) {
	id := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, seed, radius, river_count, max_river_length, hill_count, routed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, cfg.Seed, m.Radius, cfg.RiverCount, cfg.MaxRiverLength, cfg.HillCount,
		routed, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO cells (run_id, idx, q, r, s, terrain) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, c := range m.Cells {
		if _, err := stmt.Exec(id, i, c.Coord.Q, c.Coord.R, c.Coord.S, int(c.Terrain)); err != nil {
			return "", fmt.Errorf("insert cell %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Info("run saved", "id", id, "cells", len(m.Cells))
	return id, nil
}

// GetRun returns the stored parameters of run id.
func (db *DB) GetRun(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	return run, err
}

// Runs returns the most recent runs, newest first.
func (db *DB) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT * FROM runs ORDER BY created_at DESC LIMIT ?", limit)
	return runs, err
}

// LoadMap rebuilds the map stored under run id.
func (db *DB) LoadMap(id string) (*world.Map, error) {
	run, err := db.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}

	m, err := world.CreateLattice(run.Radius)
	if err != nil {
		return nil, err
	}

	var rows []cellRow
	if err := db.conn.Select(&rows, "SELECT idx, q, r, s, terrain FROM cells WHERE run_id = ? ORDER BY idx", id); err != nil {
		return nil, fmt.Errorf("load cells %s: %w", id, err)
	}
	if len(rows) != len(m.Cells) {
		return nil, fmt.Errorf("run %s has %d cells, want %d: %w", id, len(rows), len(m.Cells), ErrCellMismatch)
	}

	for _, row := range rows {
		coord := world.CubeCoord{Q: row.Q, R: row.R, S: row.S}
		if row.Idx < 0 || row.Idx >= len(m.Cells) || m.Cells[row.Idx].Coord != coord {
			return nil, fmt.Errorf("run %s cell %d at %v: %w", id, row.Idx, coord, ErrCellMismatch)
		}
		m.Cells[row.Idx].Terrain = world.Terrain(row.Terrain)
	}
	return m, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
