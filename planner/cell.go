// Package planner implements the D*-Lite incremental replanner of spec.md
// §4.7: the lexicographic-key open set, updateCell/planPath repair loop, and
// pathTraversal's simulated-perception step.
package planner

import (
	"math"

	"github.com/paulmach/orb"
)

// Inf is the large sentinel used for g/rhs "infinity" (spec.md §3).
const Inf = 1e12

// CellState is the planner's private occupancy label (distinct from the
// wire-format encoding gridmap.GridMap.Occupancy uses): 0 free, 1 occupied,
// 2 inflated, -1 unknown (spec.md §3, glossary "Inflation state").
type CellState int8

const (
	StateFree     CellState = 0
	StateOccupied CellState = 1
	StateInflated CellState = 2
	StateUnknown  CellState = -1
)

// Key is the lexicographic priority (k1, k2) spec.md §4.7 defines:
// k1 = min(g,rhs) + h, k2 = min(g,rhs).
type Key struct {
	K1, K2 float64
}

// Less reports whether k sorts strictly before other, comparing k1 first
// and breaking ties on k2 (spec.md §4.7 "compared element-wise with tie on
// k1").
func (k Key) Less(other Key) bool {
	if k.K1 != other.K1 {
		return k.K1 < other.K1
	}
	return k.K2 < other.K2
}

// Cell is one planner grid cell (spec.md §3).
type Cell struct {
	I, J     int
	ID       int
	P        orb.Point
	State    CellState
	G, Rhs   float64
	H        float64
	K        Key
	ParentID int
	Updated  bool

	heapIndex int
}

// NewCell builds an unvisited cell: g = rhs = +infinity, no parent.
func NewCell(i, j, id int, p orb.Point) *Cell {
	return &Cell{
		I: i, J: j, ID: id, P: p,
		State:     StateUnknown,
		G:         Inf,
		Rhs:       Inf,
		ParentID:  -1,
		heapIndex: -1,
	}
}

// CalculateKey recomputes c.K from its current g, rhs and h, as
// calculateKeys does in dstar_light.cpp.
func (c *Cell) CalculateKey() {
	m := math.Min(c.G, c.Rhs)
	c.K = Key{K1: m + c.H, K2: m}
}
