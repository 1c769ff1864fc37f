package world

import (
	"errors"
	"fmt"
)

// ErrInvalidRadius is returned when a lattice is requested with a negative radius.
var ErrInvalidRadius = errors.New("radius must be >= 0")

// Cell is one lattice position and the terrain painted on it.
type Cell struct {
	Coord   CubeCoord `json:"coord"`
	Terrain Terrain   `json:"terrain"`
}

// Map holds the full bounding cube of cells in a fixed order.
// Generators address cells by index; terrain mutation never changes the
// length or order of Cells, so hex-disk index lists stay valid.
type Map struct {
	Cells  []Cell `json:"cells"`
	Radius int    `json:"radius"`

	// Built in CreateLattice, or on first lookup for maps assembled or
	// decoded by hand. Never written once it matches Cells, so clones share it.
	index map[CubeCoord]int
}

// CreateLattice enumerates every coordinate in {0..2*radius}^3 with Plain
// terrain. Cells off the hex disk stay in the array but are never displayed.
func CreateLattice(radius int) (*Map, error) {
	if radius < 0 {
		return nil, fmt.Errorf("create lattice (radius=%d): %w", radius, ErrInvalidRadius)
	}

	n := 2*radius + 1
	m := &Map{
		Cells:  make([]Cell, 0, n*n*n),
		Radius: radius,
		index:  make(map[CubeCoord]int, n*n*n),
	}

	for q := 0; q < n; q++ {
		for r := 0; r < n; r++ {
			for s := 0; s < n; s++ {
				coord := CubeCoord{Q: q, R: r, S: s}
				m.index[coord] = len(m.Cells)
				m.Cells = append(m.Cells, Cell{Coord: coord, Terrain: TerrainPlain})
			}
		}
	}

	return m, nil
}

// HexDiskIndices returns, in ascending order, the indices of cells whose
// coordinates sum to 3*radius. A radius r disk has 3r²+3r+1 cells.
func HexDiskIndices(m *Map) []int {
	target := 3 * m.Radius
	idxs := make([]int, 0, 3*m.Radius*m.Radius+3*m.Radius+1)
	for i, c := range m.Cells {
		if c.Coord.Q+c.Coord.R+c.Coord.S == target {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// lookup returns the coordinate index, rebuilding it from Cells when it is
// missing or stale. The first matching cell wins.
func (m *Map) lookup() map[CubeCoord]int {
	if m.index != nil && len(m.index) == len(m.Cells) {
		return m.index
	}
	index := make(map[CubeCoord]int, len(m.Cells))
	for i, c := range m.Cells {
		if _, dup := index[c.Coord]; !dup {
			index[c.Coord] = i
		}
	}
	m.index = index
	return index
}

// IndexOf returns the array index of coord, or false if it is not in the lattice.
func (m *Map) IndexOf(coord CubeCoord) (int, bool) {
	i, ok := m.lookup()[coord]
	return i, ok
}

// Get returns the cell at coord, or nil if out of bounds.
func (m *Map) Get(coord CubeCoord) *Cell {
	i, ok := m.lookup()[coord]
	if !ok {
		return nil
	}
	return &m.Cells[i]
}

// OnDisk reports whether the cell at index i lies on the hex disk.
func (m *Map) OnDisk(i int) bool {
	if i < 0 || i >= len(m.Cells) {
		return false
	}
	c := m.Cells[i].Coord
	return c.Q+c.R+c.S == 3*m.Radius
}

// Clone returns a map with its own copy of Cells.
func (m *Map) Clone() *Map {
	cells := make([]Cell, len(m.Cells))
	copy(cells, m.Cells)
	return &Map{Cells: cells, Radius: m.Radius, index: m.lookup()}
}

// paint sets the terrain at coord if coord is inside the bounding cube and
// present in the lattice. Misses are silent.
func (m *Map) paint(coord CubeCoord, t Terrain) bool {
	if !IsValid(coord, m.Radius) {
		return false
	}
	i, ok := m.lookup()[coord]
	if !ok {
		return false
	}
	m.Cells[i].Terrain = t
	return true
}

// HexDisk returns copies of the cells at the given indices, in order.
func HexDisk(m *Map, disk []int) []Cell {
	cells := make([]Cell, len(disk))
	for i, idx := range disk {
		cells[i] = m.Cells[idx]
	}
	return cells
}

// TerrainCounts returns a summary of terrain type distribution over the given indices.
func TerrainCounts(m *Map, disk []int) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, idx := range disk {
		counts[m.Cells[idx].Terrain]++
	}
	return counts
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, cells=%d)", m.Radius, len(m.Cells))
}
