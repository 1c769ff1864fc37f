package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AksiLipe/hexagons/internal/world"
)

func TestBuild_FiltersDisk(t *testing.T) {
	m, disk, err := world.Generate(world.SmallTestConfig())
	require.NoError(t, err)

	v := Build(m, disk, 42)
	require.Len(t, v.Cells, len(disk))
	assert.Equal(t, m.Radius, v.Radius)

	for i, c := range v.Cells {
		assert.Equal(t, disk[i], c.Index)
		assert.Equal(t, 3*m.Radius, c.Q+c.R+c.S)
		assert.Equal(t, world.TerrainName(world.Terrain(c.Terrain)), c.Label)
		assert.Equal(t, Color(world.Terrain(c.Terrain)), c.Color)
		assert.GreaterOrEqual(t, c.Relief, 0.0)
		assert.LessOrEqual(t, c.Relief, 1.0)
	}

	counts := v.Counts()
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, len(disk), total)
}

func TestBuild_Deterministic(t *testing.T) {
	m, disk, err := world.Generate(world.SmallTestConfig())
	require.NoError(t, err)
	assert.Equal(t, Build(m, disk, 9), Build(m, disk, 9))
}

func TestLayout_CenterAtOrigin(t *testing.T) {
	x, y := Layout(world.CubeCoord{Q: 3, R: 3, S: 3}, 3)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)

	// Neighbours sit one hex width away.
	for _, d := range world.MovementVectors() {
		nx, ny := Layout(world.CubeCoord{Q: 3 + d.Q, R: 3 + d.R, S: 3 + d.S}, 3)
		dist := nx*nx + ny*ny
		assert.InDelta(t, 3*HexSize*HexSize, dist, 1e-6)
	}
}

func TestColor(t *testing.T) {
	assert.Equal(t, "#387C44", Color(world.TerrainPlain))
	assert.Equal(t, "maroon", Color(world.TerrainRoute))
	assert.Equal(t, "black", Color(world.Terrain(2)))
}

func TestWriteJSON(t *testing.T) {
	m, err := world.CreateLattice(1)
	require.NoError(t, err)
	v := Build(m, world.HexDiskIndices(m), 1)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, v))

	var decoded struct {
		Radius int               `json:"radius"`
		Labels map[string]string `json:"labels"`
		Cells  []Cell            `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.Radius)
	assert.Len(t, decoded.Cells, 7)
	assert.Equal(t, "River", decoded.Labels["10"])
	assert.Equal(t, "Plain", decoded.Cells[0].Label)
}
