// World generation: random-walk rivers, hill blobs and route overlay.
// Every stage copies the map it is given and returns the copy.
package world

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrInvalidRiverLength = errors.New("max river length must be >= 1")
	ErrInvalidCount       = errors.New("count must be >= 0")
	ErrEmptyDisk          = errors.New("hex disk has no cells")
	ErrRouteIndex         = errors.New("route index out of range")
)

// Rand is the random source threaded through the generators.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// GenConfig holds world generation parameters.
type GenConfig struct {
	Radius         int   `yaml:"radius"`           // Lattice half-extent; the cube is (2r+1)^3 cells
	Seed           int64 `yaml:"seed"`             // Random seed; used as given
	RiverCount     int   `yaml:"river_count"`      // Independent river walks
	MaxRiverLength int   `yaml:"max_river_length"` // Walk length is drawn from [1, MaxRiverLength]
	HillCount      int   `yaml:"hill_count"`       // Center-plus-ring blobs
}

// DefaultGenConfig returns the standard world: radius 20, 40 rivers, 10 hills.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:         20,
		Seed:           42,
		RiverCount:     40,
		MaxRiverLength: 7,
		HillCount:      10,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:         5,
		Seed:           42,
		RiverCount:     6,
		MaxRiverLength: 4,
		HillCount:      2,
	}
}

// Validate rejects parameters that indicate caller misuse.
func (c GenConfig) Validate() error {
	if c.Radius < 0 {
		return fmt.Errorf("radius %d: %w", c.Radius, ErrInvalidRadius)
	}
	if c.MaxRiverLength < 1 {
		return fmt.Errorf("max river length %d: %w", c.MaxRiverLength, ErrInvalidRiverLength)
	}
	if c.RiverCount < 0 {
		return fmt.Errorf("river count %d: %w", c.RiverCount, ErrInvalidCount)
	}
	if c.HillCount < 0 {
		return fmt.Errorf("hill count %d: %w", c.HillCount, ErrInvalidCount)
	}
	return nil
}

// Generate builds the lattice and runs rivers then hills with a single
// random source seeded from cfg.Seed. The same config always yields the
// same terrain. It returns the map and its hex-disk indices.
func Generate(cfg GenConfig) (*Map, []int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	m, err := CreateLattice(cfg.Radius)
	if err != nil {
		return nil, nil, err
	}
	disk := HexDiskIndices(m)
	rng := NewRand(cfg.Seed)

	m, err = GenerateRivers(m, disk, rng, cfg.RiverCount, cfg.MaxRiverLength)
	if err != nil {
		return nil, nil, fmt.Errorf("rivers: %w", err)
	}
	m, err = GenerateHills(m, disk, rng, cfg.HillCount)
	if err != nil {
		return nil, nil, fmt.Errorf("hills: %w", err)
	}
	return m, disk, nil
}

// GenerateRivers carves riverCount random walks. Each walk starts on a
// random hex-disk cell and takes between 1 and maxLength steps along the
// river directions. A step that leaves the bounding cube is skipped and the
// walk carries on from where it was. Walks may leave the disk.
func GenerateRivers(m *Map, disk []int, rng Rand, riverCount, maxLength int) (*Map, error) {
	if maxLength < 1 {
		return nil, fmt.Errorf("max river length %d: %w", maxLength, ErrInvalidRiverLength)
	}
	if riverCount < 0 {
		return nil, fmt.Errorf("river count %d: %w", riverCount, ErrInvalidCount)
	}
	if riverCount > 0 && len(disk) == 0 {
		return nil, ErrEmptyDisk
	}

	riverMap := m.Clone()
	moves := RiverMovementVectors()

	for i := 0; i < riverCount; i++ {
		length := 1 + rng.Intn(maxLength)
		current := riverMap.Cells[disk[rng.Intn(len(disk))]].Coord

		for step := 0; step < length; step++ {
			candidate := current.Add(moves[rng.Intn(len(moves))])
			if riverMap.paint(candidate, TerrainRiver) {
				current = candidate
			}
		}
	}

	return riverMap, nil
}

// GenerateHills paints hillCount blobs, each a random hex-disk center plus
// whichever of its six neighbours exist.
func GenerateHills(m *Map, disk []int, rng Rand, hillCount int) (*Map, error) {
	if hillCount < 0 {
		return nil, fmt.Errorf("hill count %d: %w", hillCount, ErrInvalidCount)
	}
	if hillCount > 0 && len(disk) == 0 {
		return nil, ErrEmptyDisk
	}

	hillsMap := m.Clone()

	for i := 0; i < hillCount; i++ {
		center := disk[rng.Intn(len(disk))]
		hillsMap.Cells[center].Terrain = TerrainHill
		for _, neighbor := range hillsMap.Cells[center].Coord.Neighbors() {
			hillsMap.paint(neighbor, TerrainHill)
		}
	}

	return hillsMap, nil
}

// ApplyRoute marks every cell in path as Route, whatever it was before.
// The path is not checked for contiguity; indices outside the map are
// rejected before anything is written.
func ApplyRoute(m *Map, path []int) (*Map, error) {
	for _, idx := range path {
		if idx < 0 || idx >= len(m.Cells) {
			return nil, fmt.Errorf("index %d of %d cells: %w", idx, len(m.Cells), ErrRouteIndex)
		}
	}

	routeMap := m.Clone()
	for _, idx := range path {
		routeMap.Cells[idx].Terrain = TerrainRoute
	}
	return routeMap, nil
}
