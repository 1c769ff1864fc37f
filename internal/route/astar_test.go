package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AksiLipe/hexagons/internal/world"
)

func lattice(t *testing.T, radius int) *world.Map {
	t.Helper()
	m, err := world.CreateLattice(radius)
	require.NoError(t, err)
	return m
}

func index(t *testing.T, m *world.Map, c world.CubeCoord) int {
	t.Helper()
	i, ok := m.IndexOf(c)
	require.True(t, ok)
	return i
}

func assertContiguous(t *testing.T, m *world.Map, path []int) {
	t.Helper()
	for i, idx := range path {
		assert.True(t, m.OnDisk(idx), "step %d off disk", i)
		if i > 0 {
			assert.Equal(t, 1, world.HexDistance(m.Cells[path[i-1]].Coord, m.Cells[idx].Coord))
		}
	}
}

func TestSolve_PlainIsShortest(t *testing.T) {
	m := lattice(t, 3)
	from := index(t, m, world.CubeCoord{Q: 0, R: 3, S: 6})
	to := index(t, m, world.CubeCoord{Q: 6, R: 3, S: 0})

	path, err := Solve(m, from, to)
	require.NoError(t, err)
	assert.Equal(t, from, path[0])
	assert.Equal(t, to, path[len(path)-1])
	assert.Len(t, path, 7)
	assertContiguous(t, m, path)
	assert.Equal(t, 6, PathCost(m, path))
}

func TestSolve_AvoidsHill(t *testing.T) {
	m := lattice(t, 1)
	center := index(t, m, world.CubeCoord{Q: 1, R: 1, S: 1})
	m.Cells[center].Terrain = world.TerrainHill

	from := index(t, m, world.CubeCoord{Q: 0, R: 1, S: 2})
	to := index(t, m, world.CubeCoord{Q: 2, R: 1, S: 0})

	path, err := Solve(m, from, to)
	require.NoError(t, err)
	assert.NotContains(t, path, center)
	assert.Len(t, path, 4)
	assert.Equal(t, 3, PathCost(m, path))
	assertContiguous(t, m, path)
}

func TestSolve_SameCell(t *testing.T) {
	m := lattice(t, 2)
	disk := world.HexDiskIndices(m)
	path, err := Solve(m, disk[4], disk[4])
	require.NoError(t, err)
	assert.Equal(t, []int{disk[4]}, path)
}

func TestSolve_OffDisk(t *testing.T) {
	m := lattice(t, 1)
	disk := world.HexDiskIndices(m)

	_, err := Solve(m, 0, disk[0])
	assert.ErrorIs(t, err, ErrNotOnDisk)

	_, err = Solve(m, disk[0], len(m.Cells))
	assert.ErrorIs(t, err, ErrNotOnDisk)
}

func TestSolve_FeedsApplyRoute(t *testing.T) {
	m, disk, err := world.Generate(world.SmallTestConfig())
	require.NoError(t, err)

	path, err := Solve(m, disk[0], disk[len(disk)-1])
	require.NoError(t, err)

	routed, err := world.ApplyRoute(m, path)
	require.NoError(t, err)
	for _, idx := range path {
		assert.Equal(t, world.TerrainRoute, routed.Cells[idx].Terrain)
	}
}

func TestSolve_LiteralMap(t *testing.T) {
	src := lattice(t, 2)
	m := &world.Map{Cells: append([]world.Cell(nil), src.Cells...), Radius: 2}
	disk := world.HexDiskIndices(m)

	path, err := Solve(m, disk[0], disk[len(disk)-1])
	require.NoError(t, err)
	assertContiguous(t, m, path)
}
