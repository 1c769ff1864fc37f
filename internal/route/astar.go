// Package route solves shortest paths across the hex disk so they can be
// painted onto a map with world.ApplyRoute.
package route

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/AksiLipe/hexagons/internal/world"
)

var (
	ErrNotOnDisk = errors.New("endpoint is not on the hex disk")
	ErrNoRoute   = errors.New("no route between endpoints")
)

// StepCost returns the cost of entering a cell with terrain t.
func StepCost(t world.Terrain) int {
	switch t {
	case world.TerrainRiver:
		return 3
	case world.TerrainHill:
		return 5
	default:
		return 1
	}
}

// Solve computes a least-cost path from cell index from to cell index to,
// moving only between hex-disk cells. The path includes both endpoints.
func Solve(m *world.Map, from, to int) ([]int, error) {
	if !m.OnDisk(from) {
		return nil, fmt.Errorf("from %d: %w", from, ErrNotOnDisk)
	}
	if !m.OnDisk(to) {
		return nil, fmt.Errorf("to %d: %w", to, ErrNotOnDisk)
	}
	if from == to {
		return []int{from}, nil
	}

	goal := m.Cells[to].Coord
	h := func(i int) int { return world.HexDistance(m.Cells[i].Coord, goal) }

	open := &nodePQ{}
	heap.Init(open)
	heap.Push(open, &pqNode{idx: from, f: h(from)})

	g := map[int]int{from: 0}
	came := map[int]int{}
	closed := map[int]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pqNode).idx
		if closed[cur] {
			continue
		}
		closed[cur] = true
		if cur == to {
			return reconstruct(came, from, to), nil
		}

		for _, nb := range m.Cells[cur].Coord.Neighbors() {
			ni, ok := m.IndexOf(nb)
			if !ok || closed[ni] || !m.OnDisk(ni) {
				continue
			}
			tentative := g[cur] + StepCost(m.Cells[ni].Terrain)
			if old, seen := g[ni]; !seen || tentative < old {
				g[ni] = tentative
				came[ni] = cur
				heap.Push(open, &pqNode{idx: ni, f: tentative + h(ni)})
			}
		}
	}
	return nil, fmt.Errorf("%d -> %d: %w", from, to, ErrNoRoute)
}

func reconstruct(came map[int]int, from, to int) []int {
	path := []int{to}
	for k := to; k != from; {
		k = came[k]
		path = append(path, k)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost sums the entry cost of every cell after the first.
func PathCost(m *world.Map, path []int) int {
	total := 0
	for i := 1; i < len(path); i++ {
		total += StepCost(m.Cells[path[i]].Terrain)
	}
	return total
}

type pqNode struct {
	idx int
	f   int
}

type nodePQ []*pqNode

func (p nodePQ) Len() int           { return len(p) }
func (p nodePQ) Less(i, j int) bool { return p[i].f < p[j].f }
func (p nodePQ) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p *nodePQ) Push(x any)        { *p = append(*p, x.(*pqNode)) }
func (p *nodePQ) Pop() any {
	old := *p
	n := len(old)
	x := old[n-1]
	*p = old[:n-1]
	return x
}
