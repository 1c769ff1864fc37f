// Package world provides the cube-coordinate lattice, terrain, and the
// stochastic generators that paint rivers, hills and routes onto it.
//
// Coordinates are un-centered: every component lies in [0, 2*radius] and the
// hex disk is the plane q+r+s == 3*radius through the bounding cube.
package world

import (
	"math"

	"golang.org/x/exp/constraints"
)

// CubeCoord is a position in the lattice. Lattice cells sum to 3*radius;
// movement vectors sum to zero so addition stays on the same plane.
type CubeCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

// Add returns c+d component-wise.
func (c CubeCoord) Add(d CubeCoord) CubeCoord {
	return CubeCoord{Q: c.Q + d.Q, R: c.R + d.R, S: c.S + d.S}
}

// Terrain is the feature painted on a cell. Writes are unconditional: the
// last generator to touch a cell wins.
type Terrain int

const (
	TerrainPlain Terrain = 1    // Default for every lattice cell
	TerrainRiver Terrain = 10   // Carved by river walks
	TerrainHill  Terrain = 100  // Center plus ring blobs
	TerrainRoute Terrain = 1000 // Painted from a solved route
)

// TerrainLabels maps terrain codes to the labels shown by renderers.
var TerrainLabels = map[Terrain]string{
	TerrainPlain: "Plain",
	TerrainHill:  "Hill",
	TerrainRiver: "River",
	TerrainRoute: "Route",
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	if name, ok := TerrainLabels[t]; ok {
		return name
	}
	return "Unknown"
}

// movementVectors is the fixed step order. Seeded runs depend on it.
var movementVectors = [6]CubeCoord{
	{Q: 0, R: 1, S: -1},
	{Q: 1, R: 0, S: -1},
	{Q: 1, R: -1, S: 0},
	{Q: 0, R: -1, S: 1},
	{Q: -1, R: 0, S: 1},
	{Q: -1, R: 1, S: 0},
}

// MovementVectors returns the six unit steps between neighbouring cells.
func MovementVectors() [6]CubeCoord {
	return movementVectors
}

// RiverMovementVectors returns the two directions rivers may flow in.
func RiverMovementVectors() [2]CubeCoord {
	return [2]CubeCoord{movementVectors[0], movementVectors[1]}
}

// Neighbors returns the six coordinates one step away. Some may lie outside
// the lattice.
func (c CubeCoord) Neighbors() [6]CubeCoord {
	var result [6]CubeCoord
	for i, dir := range movementVectors {
		result[i] = c.Add(dir)
	}
	return result
}

// Distance returns the straight-line distance between two coordinates
// treated as 3-vectors. This is not the hex step distance; see HexDistance.
func Distance(a, b CubeCoord) float64 {
	dq := float64(a.Q - b.Q)
	dr := float64(a.R - b.R)
	ds := float64(a.S - b.S)
	return math.Sqrt(dq*dq + dr*dr + ds*ds)
}

// HexDistance returns the number of unit steps between two coordinates on
// the same plane.
func HexDistance(a, b CubeCoord) int {
	return max(abs(a.Q-b.Q), abs(a.R-b.R), abs(a.S-b.S))
}

// IsValid reports whether every component of p lies in [0, 2*radius].
// This is a bounding-cube check: a valid point need not lie on the hex disk.
func IsValid(p CubeCoord, radius int) bool {
	hi := 2 * radius
	return p.Q >= 0 && p.Q <= hi &&
		p.R >= 0 && p.R <= hi &&
		p.S >= 0 && p.S <= hi
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
