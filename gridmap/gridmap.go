// Package gridmap defines the occupancy-grid contract spec.md §1 treats as
// an external collaborator ("GridMap (external contract)"), plus a concrete
// log-odds implementation so the particle filter and planner can be
// exercised end to end without a real sensor stack.
package gridmap

import (
	"github.com/paulmach/orb"

	"github.com/SiChiTong/ROS-Turtlebot-Navigation/transform"
)

// Conventional occupancy encoding used by GridMap.Occupancy, matching
// spec.md §6: 0 free, 100 occupied, -1 unknown.
const (
	OccFree    int8 = 0
	OccOccup   int8 = 100
	OccUnknown int8 = -1
)

// GridMap is the contract each particle's owned map, and the planner's
// reference grid, must satisfy. It is the "GridMap (external contract)" row
// of spec.md §2: row-major occupancy grid, world<->grid coordinate
// conversion, integrateScan and likelihoodFieldModel.
type GridMap interface {
	// World2Grid converts a world-frame (x, y) point to grid indices (i, j).
	World2Grid(x, y float64) (i, j int)
	// Grid2RowMajor converts grid indices to a row-major cell id.
	Grid2RowMajor(i, j int) int
	// RowMajor2Grid is the inverse of Grid2RowMajor.
	RowMajor2Grid(id int) (i, j int)
	// Grid2World converts grid indices to the world-frame point at the
	// center of that cell.
	Grid2World(i, j int) orb.Point
	// WorldBounds reports whether grid indices (i, j) fall inside the grid.
	WorldBounds(i, j int) bool
	// GridSize returns the grid's (xsize, ysize) discretization counts.
	GridSize() (xsize, ysize int)
	// GridOrigin returns the world-frame coordinate of grid cell (0, 0).
	GridOrigin() orb.Point
	// Resolution returns the grid's cell edge length in world units.
	Resolution() float64
	// IntegrateScan folds a planar range scan taken from pose into the map.
	IntegrateScan(scan []float64, pose transform.Transform2D)
	// LikelihoodFieldModel scores how well scan matches the map if the
	// sensor were at pose, as a product of per-ray Gaussian densities over
	// distance to the nearest occupied cell (the glossary's "likelihood
	// field model").
	LikelihoodFieldModel(scan []float64, pose transform.Transform2D) float64
	// Occupancy returns a row-major copy of the grid using the conventional
	// encoding (OccFree/OccOccup/OccUnknown), for newMap/getGridViz.
	Occupancy() []int8
	// Clone returns an independent deep copy, so each particle can own its
	// own map with no aliasing (spec.md §3 Ownership).
	Clone() GridMap
}
