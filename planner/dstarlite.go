package planner

import (
	"fmt"
	"log"
	"math"

	"github.com/paulmach/orb"

	"github.com/SiChiTong/ROS-Turtlebot-Navigation/gridmap"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/slamconfig"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/slamutil"
)

// eightConnected is the D*-Lite neighbor action set (spec.md §4.7).
var eightConnected = [8][2]int{
	{0, -1}, {0, 1},
	{-1, 0}, {1, 0},
	{-1, -1}, {-1, 1},
	{1, -1}, {1, 1},
}

// DStarLite is the incremental shortest-path replanner of spec.md §4.7: it
// maintains a goal-rooted shortest-path tree over a grid whose edge costs
// change as obstacles are revealed, repairing the tree locally instead of
// replanning from scratch.
type DStarLite struct {
	cfg slamconfig.PlannerConfig
	gm  gridmap.GridMap

	grid      []*Cell     // planner's own working grid, all-free until revealed
	refStates []CellState // ground truth, snapshotted once at construction

	open *openSet

	startID, goalID int
	goalReached     bool

	visited []int
	path    []orb.Point
}

// New builds a planner over gm's dimensions. The working grid starts
// entirely free (spec.md §4.7/the original's constructor: "assume all cells
// are unoccupied"); the reference grid is a one-time snapshot of gm's
// current occupancy, the "ground truth" source of edge-cost revelations
// pathTraversal draws from.
func New(cfg slamconfig.PlannerConfig, gm gridmap.GridMap) *DStarLite {
	xsize, ysize := gm.GridSize()
	n := xsize * ysize
	if cfg.MaxPlanIterations == 0 {
		cfg.MaxPlanIterations = 50 * n
	}

	occ := gm.Occupancy()
	refStates := make([]CellState, n)
	for id, v := range occ {
		refStates[id] = occupancyToState(v)
	}
	inflateOccupied(refStates, gm)

	grid := make([]*Cell, n)
	for id := range grid {
		i, j := gm.RowMajor2Grid(id)
		c := NewCell(i, j, id, gm.Grid2World(i, j))
		c.State = StateFree
		grid[id] = c
	}

	return &DStarLite{
		cfg:       cfg,
		gm:        gm,
		grid:      grid,
		refStates: refStates,
		open:      newOpenSet(),
	}
}

func occupancyToState(v int8) CellState {
	switch v {
	case gridmap.OccOccup:
		return StateOccupied
	case gridmap.OccFree:
		return StateFree
	default:
		return StateUnknown
	}
}

// inflateOccupied marks every free neighbor of an occupied cell as
// StateInflated, giving the planner's edgeCost a high-penalty buffer around
// obstacles (glossary: "Inflation state (2)").
func inflateOccupied(states []CellState, gm gridmap.GridMap) {
	xsize, ysize := gm.GridSize()
	toInflate := make(map[int]bool)
	for id, st := range states {
		if st != StateOccupied {
			continue
		}
		i, j := gm.RowMajor2Grid(id)
		for _, a := range eightConnected {
			ni, nj := i+a[0], j+a[1]
			if ni < 0 || ni >= xsize || nj < 0 || nj >= ysize {
				continue
			}
			nid := gm.Grid2RowMajor(ni, nj)
			if states[nid] != StateOccupied {
				toInflate[nid] = true
			}
		}
	}
	for id := range toInflate {
		states[id] = StateInflated
	}
}

// InitPath sets the start/goal cells and seeds the open set with the goal,
// exactly as initPath in dstar_light.cpp.
func (d *DStarLite) InitPath(start, goal orb.Point) {
	si, sj := d.gm.World2Grid(start[0], start[1])
	d.startID = d.gm.Grid2RowMajor(si, sj)

	gi, gj := d.gm.World2Grid(goal[0], goal[1])
	d.goalID = d.gm.Grid2RowMajor(gi, gj)

	goalCell := d.grid[d.goalID]
	goalCell.Rhs = 0
	goalCell.H = d.heuristic(d.goalID)
	goalCell.CalculateKey()
	d.open.insert(goalCell)
}

// PlanPath expands the open set until the start cell is consistent and
// holds the minimum key (spec.md §4.7), capped at
// PlannerConfig.MaxPlanIterations (spec.md §9).
func (d *DStarLite) PlanPath() error {
	d.visited = d.visited[:0]

	iterations := 0
	for d.ifPlanning() {
		iterations++
		if iterations > d.cfg.MaxPlanIterations {
			return ErrPlanIterationCap
		}

		u := d.open.popMin()

		if u.G > u.Rhs {
			// overconsistent
			u.G = u.Rhs
			for _, id := range d.neighbors(u) {
				d.updateCell(id)
				d.visited = append(d.visited, id)
			}
		} else {
			// underconsistent
			u.G = Inf
			for _, id := range d.neighbors(u) {
				d.updateCell(id)
				d.visited = append(d.visited, id)
			}
			d.updateCell(u.ID)
			d.visited = append(d.visited, u.ID)
		}
	}
	return nil
}

// ifPlanning is the termination test of spec.md §4.7. Its branch on
// almost_equal(min_key1, start.k1) is intentionally asymmetric, preserved
// from the original rather than "fixed" into a textbook-symmetric test
// (spec.md §9 open question 2).
func (d *DStarLite) ifPlanning() bool {
	start := d.grid[d.startID]
	start.H = d.heuristic(d.startID)
	start.CalculateKey()
	d.open.fix(d.startID)

	min := d.open.peekMin()
	if min == nil {
		return start.Rhs != start.G
	}

	if slamutil.AlmostEqual(min.K.K1, start.K.K1) {
		if min.K.K2 < start.K.K2 || start.Rhs != start.G {
			return true
		}
	} else {
		if min.K.K1 < start.K.K1 || start.Rhs != start.G {
			return true
		}
	}
	return false
}

// updateCell recomputes rhs(id) from its best successor, then repositions
// id in the open set according to local consistency (spec.md §4.7).
func (d *DStarLite) updateCell(id int) {
	c := d.grid[id]

	if id != d.goalID {
		minID, ok := d.minNeighbor(id, false)
		if ok {
			c.Rhs = d.grid[minID].G + d.edgeCost(id, minID)
			c.ParentID = minID
		} else {
			c.Rhs = Inf
			c.ParentID = -1
		}
	}

	d.open.remove(id)

	if c.Rhs != c.G {
		c.H = d.heuristic(id)
		c.CalculateKey()
		d.open.insert(c)
	}
}

// PathTraversal advances the robot one cell toward the goal, reveals
// newly-visible cells, and repairs the plan (spec.md §4.7).
func (d *DStarLite) PathTraversal() error {
	if d.startID == d.goalID && !d.goalReached {
		log.Printf("planner: goal reached")
		d.goalReached = true
		return nil
	}

	nextID, ok := d.minNeighbor(d.startID, true)
	if !ok {
		return ErrNoTraversableNeighbor
	}
	d.startID = nextID
	d.path = append(d.path, d.grid[d.startID].P)

	revealed := d.simulateGridUpdate()
	if len(revealed) == 0 {
		return nil
	}

	for _, cid := range revealed {
		for _, nid := range d.neighbors(d.grid[cid]) {
			d.updateCell(nid)
		}
	}

	for _, c := range d.open.all() {
		c.H = d.heuristic(c.ID)
		c.CalculateKey()
	}
	d.open.reheapify()

	return d.PlanPath()
}

// simulateGridUpdate reveals any not-yet-observed cell within vizd of the
// current start, copying its true state from the reference grid (spec.md
// §4.7).
func (d *DStarLite) simulateGridUpdate() []int {
	start := d.grid[d.startID]
	vizd := d.cfg.VisibilityRadius

	iMin, iMax := start.I-vizd, start.I+vizd
	jMin, jMax := start.J-vizd, start.J+vizd

	xsize, ysize := d.gm.GridSize()
	if iMin < 0 {
		iMin = 0
	}
	if jMin < 0 {
		jMin = 0
	}
	if iMax >= xsize {
		iMax = xsize - 1
	}
	if jMax >= ysize {
		jMax = ysize - 1
	}

	var revealed []int
	for i := iMin; i <= iMax; i++ {
		for j := jMin; j <= jMax; j++ {
			id := d.gm.Grid2RowMajor(i, j)
			c := d.grid[id]
			if !c.Updated {
				c.Updated = true
				c.State = d.refStates[id]
				revealed = append(revealed, id)
			}
		}
	}
	return revealed
}

// neighbors returns the in-bounds 8-connected neighbor ids of cell,
// including occupied ones (spec.md §4.7: "over all 8 neighbors (including
// occupied ones)").
func (d *DStarLite) neighbors(cell *Cell) []int {
	var ids []int
	for _, a := range eightConnected {
		in, jn := cell.I+a[0], cell.J+a[1]
		if d.gm.WorldBounds(in, jn) {
			ids = append(ids, d.gm.Grid2RowMajor(in, jn))
		}
	}
	return ids
}

// minNeighbor finds the neighbor of id minimizing g(s')+c(id,s'). When
// excludeOccupied is true, occupied/inflated neighbors are skipped (the
// traversability constraint PathTraversal uses); when false, all neighbors
// are considered (the cost-propagation rule updateCell uses).
func (d *DStarLite) minNeighbor(id int, excludeOccupied bool) (int, bool) {
	best := -1
	bestCost := math.Inf(1)

	for _, nid := range d.neighbors(d.grid[id]) {
		if excludeOccupied {
			st := d.grid[nid].State
			if st == StateOccupied || st == StateInflated {
				continue
			}
		}
		cost := d.grid[nid].G + d.edgeCost(id, nid)
		if cost < bestCost {
			bestCost = cost
			best = nid
		}
	}
	return best, best != -1
}

// heuristic is the Euclidean distance, in grid indices, from cell id to the
// current start cell (spec.md §4.7: anchored at start, not goal).
func (d *DStarLite) heuristic(id int) float64 {
	start := d.grid[d.startID]
	cell := d.grid[id]
	dx := float64(cell.I - start.I)
	dy := float64(cell.J - start.J)
	return math.Hypot(dx, dy)
}

// edgeCost is the cost of the edge a->b: a large occupancy penalty if b is
// occupied or inflated, else Euclidean distance in grid indices (spec.md
// §4.7).
func (d *DStarLite) edgeCost(aID, bID int) float64 {
	b := d.grid[bID]
	if b.State == StateOccupied || b.State == StateInflated {
		return d.cfg.OccupancyCost
	}
	a := d.grid[aID]
	dx := float64(a.I - b.I)
	dy := float64(a.J - b.J)
	return math.Hypot(dx, dy)
}

// GetPath concatenates the traversed prefix with the remaining
// parent-chain from the current start (spec.md §4.7).
func (d *DStarLite) GetPath() []orb.Point {
	traj := make([]orb.Point, len(d.path), len(d.path)+8)
	copy(traj, d.path)

	id := d.startID
	for id != -1 {
		traj = append(traj, d.grid[id].P)
		id = d.grid[id].ParentID
	}
	return traj
}

// GetVisited returns the world points of every cell updateCell touched
// during the most recent PlanPath call.
func (d *DStarLite) GetVisited() []orb.Point {
	cells := make([]orb.Point, len(d.visited))
	for i, id := range d.visited {
		cells[i] = d.grid[id].P
	}
	return cells
}

// GetGridViz returns the planner's working grid in the viz encoding (0
// free, 30 inflated, 100 occupied, -1 unknown), row-major transposed from
// the internal layout via idx = col*xsize + row (spec.md §6).
func (d *DStarLite) GetGridViz() []int8 {
	xsize, ysize := d.gm.GridSize()
	out := make([]int8, len(d.grid))

	for i, c := range d.grid {
		row := i / ysize
		col := i % ysize
		idx := col*xsize + row

		switch c.State {
		case StateInflated:
			out[idx] = 30
		case StateOccupied:
			out[idx] = 100
		case StateFree:
			out[idx] = 0
		default:
			out[idx] = -1
		}
	}
	return out
}

// G returns cell id's current cost-to-goal estimate, for tests checking
// spec.md §8 invariants.
func (d *DStarLite) G(id int) float64 { return d.grid[id].G }

// Rhs returns cell id's lookahead cost-to-goal, for tests.
func (d *DStarLite) Rhs(id int) float64 { return d.grid[id].Rhs }

// StartID returns the planner's current start cell id.
func (d *DStarLite) StartID() int { return d.startID }

// GoalID returns the planner's goal cell id.
func (d *DStarLite) GoalID() int { return d.goalID }

// SetOccupied marks a cell occupied in the reference (ground-truth) grid
// only — it will not affect the working grid until simulateGridUpdate
// reveals it. This is the test harness's way of enacting spec.md §8
// scenario 6 ("mark cell (5,5) occupied in the reference grid only").
func (d *DStarLite) SetOccupied(i, j int) error {
	if !d.gm.WorldBounds(i, j) {
		return fmt.Errorf("planner: cell (%d,%d) out of bounds", i, j)
	}
	id := d.gm.Grid2RowMajor(i, j)
	d.refStates[id] = StateOccupied
	inflateOccupied(d.refStates, d.gm)
	return nil
}

// CellIsOpen reports whether id is currently in the open set, for tests
// checking spec.md §8's "for every cell on the open set, g != rhs"
// invariant from the other direction.
func (d *DStarLite) CellIsOpen(id int) bool {
	return d.open.contains(id)
}
