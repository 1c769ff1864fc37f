// Package render adapts a generated map for display. It filters the hex
// disk out of the bounding cube and attaches labels, colours and layout
// positions; drawing is left to whatever consumes the View.
package render

import (
	"encoding/json"
	"io"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/AksiLipe/hexagons/internal/world"
)

// TerrainColors maps terrain codes to display colours.
var TerrainColors = map[world.Terrain]string{
	world.TerrainPlain: "#387C44",
	world.TerrainHill:  "gray",
	world.TerrainRiver: "#3EA99F",
	world.TerrainRoute: "maroon",
}

// HexSize is the corner-to-center pixel radius used for layout.
const HexSize = 10.0

// Cell is one displayable hex.
type Cell struct {
	Index   int     `json:"index"` // Position in the full map, used as hover label
	Q       int     `json:"q"`
	R       int     `json:"r"`
	S       int     `json:"s"`
	Terrain int     `json:"terrain"`
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Relief  float64 `json:"relief"` // 0.0 (flat) to 1.0; cosmetic shading only
}

// View is the filtered hex disk plus the mapping needed to draw it.
type View struct {
	Radius int                      `json:"radius"`
	Seed   int64                    `json:"seed"`
	Labels map[world.Terrain]string `json:"labels"`
	Cells  []Cell                   `json:"cells"`
}

// Build returns the display view of the disk cells of m, in disk order.
func Build(m *world.Map, disk []int, seed int64) View {
	relief := opensimplex.NewNormalized(seed)

	v := View{
		Radius: m.Radius,
		Seed:   seed,
		Labels: world.TerrainLabels,
		Cells:  make([]Cell, 0, len(disk)),
	}
	for _, idx := range disk {
		c := m.Cells[idx]
		x, y := Layout(c.Coord, m.Radius)
		v.Cells = append(v.Cells, Cell{
			Index:   idx,
			Q:       c.Coord.Q,
			R:       c.Coord.R,
			S:       c.Coord.S,
			Terrain: int(c.Terrain),
			Label:   world.TerrainName(c.Terrain),
			Color:   Color(c.Terrain),
			X:       x,
			Y:       y,
			Relief:  shade(relief, c.Terrain, x, y),
		})
	}
	return v
}

// Color returns the display colour for t, black if unmapped.
func Color(t world.Terrain) string {
	if c, ok := TerrainColors[t]; ok {
		return c
	}
	return "black"
}

// Layout re-centres c on the disk center and projects it to pixels using a
// pointy-top layout.
func Layout(c world.CubeCoord, radius int) (x, y float64) {
	q := float64(c.Q - radius)
	r := float64(c.S - radius)
	x = HexSize * math.Sqrt(3) * (q + r/2.0)
	y = HexSize * 1.5 * r
	return x, y
}

// shade samples noise at the pixel position. Hills sit higher and rivers
// lower so the terrain reads at a glance.
func shade(noise opensimplex.Noise, t world.Terrain, x, y float64) float64 {
	base := noise.Eval2(x*0.02, y*0.02)
	switch t {
	case world.TerrainHill:
		base = 0.5 + base*0.5
	case world.TerrainRiver:
		base *= 0.3
	}
	return math.Max(0, math.Min(1, base))
}

// Counts returns the number of displayed cells per label.
func (v View) Counts() map[string]int {
	counts := make(map[string]int)
	for _, c := range v.Cells {
		counts[c.Label]++
	}
	return counts
}

// WriteJSON encodes v to w.
func WriteJSON(w io.Writer, v View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
