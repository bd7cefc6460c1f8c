package gridmap

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/SiChiTong/ROS-Turtlebot-Navigation/slamutil"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/transform"
)

// Scan geometry assumed for the rays in a planar scan: evenly spaced over
// [-FOV/2, FOV/2] around the sensor's heading, in sensor order, as spec.md
// §1 assumes for the scan matcher and likelihood field model.
const (
	DefaultFOV       = math.Pi
	DefaultMaxRange  = 8.0
	logOddsOccupied  = 0.85
	logOddsFree      = -0.4
	logOddsClamp     = 6.0
	logOddsOccThresh = 1.5 // occupancy-call threshold on the log-odds axis
	hitSigma         = 0.25
	zHit             = 0.9
	zRandom          = 0.1
	searchRadiusCell = 4
)

// OccupancyGrid is a log-odds occupancy grid: the concrete GridMap this
// module supplies so the RBPF core and planner can be exercised without a
// real sensor. Each particle owns one full copy (spec.md §3 Ownership).
type OccupancyGrid struct {
	Xsize, Ysize int
	Res          float64
	Origin       orb.Point
	FOV          float64
	MaxRange     float64

	logOdds []float64
}

// NewOccupancyGrid builds an all-unknown (log-odds 0) grid of xsize x ysize
// cells, Res meters per cell, with world-frame origin at grid cell (0, 0).
func NewOccupancyGrid(xsize, ysize int, res float64, origin orb.Point) *OccupancyGrid {
	return &OccupancyGrid{
		Xsize:    xsize,
		Ysize:    ysize,
		Res:      res,
		Origin:   origin,
		FOV:      DefaultFOV,
		MaxRange: DefaultMaxRange,
		logOdds:  make([]float64, xsize*ysize),
	}
}

func (g *OccupancyGrid) World2Grid(x, y float64) (i, j int) {
	i = int(math.Floor((x - g.Origin[0]) / g.Res))
	j = int(math.Floor((y - g.Origin[1]) / g.Res))
	return i, j
}

func (g *OccupancyGrid) Grid2World(i, j int) orb.Point {
	return orb.Point{
		g.Origin[0] + (float64(i)+0.5)*g.Res,
		g.Origin[1] + (float64(j)+0.5)*g.Res,
	}
}

func (g *OccupancyGrid) Grid2RowMajor(i, j int) int { return i*g.Ysize + j }

func (g *OccupancyGrid) RowMajor2Grid(id int) (i, j int) {
	return id / g.Ysize, id % g.Ysize
}

func (g *OccupancyGrid) WorldBounds(i, j int) bool {
	return i >= 0 && i < g.Xsize && j >= 0 && j < g.Ysize
}

func (g *OccupancyGrid) GridSize() (xsize, ysize int) { return g.Xsize, g.Ysize }

func (g *OccupancyGrid) GridOrigin() orb.Point { return g.Origin }

func (g *OccupancyGrid) Resolution() float64 { return g.Res }

// IntegrateScan ray-casts each beam of scan from pose, lowering the log-odds
// of free cells traversed and raising the log-odds of the cell the beam
// terminates in.
func (g *OccupancyGrid) IntegrateScan(scan []float64, pose transform.Transform2D) {
	if len(scan) == 0 {
		return
	}
	angStep := g.FOV / float64(len(scan)-1)
	if len(scan) == 1 {
		angStep = 0
	}
	start := pose.Theta - g.FOV/2

	si, sj := g.World2Grid(pose.Point[0], pose.Point[1])

	for k, r := range scan {
		if math.IsNaN(r) || r <= 0 || r >= g.MaxRange {
			continue
		}
		beamAngle := start + float64(k)*angStep
		ex := pose.Point[0] + r*math.Cos(beamAngle)
		ey := pose.Point[1] + r*math.Sin(beamAngle)
		ei, ej := g.World2Grid(ex, ey)

		for _, cell := range bresenham(si, sj, ei, ej) {
			if !g.WorldBounds(cell[0], cell[1]) {
				continue
			}
			id := g.Grid2RowMajor(cell[0], cell[1])
			g.logOdds[id] = clamp(g.logOdds[id]+logOddsFree, -logOddsClamp, logOddsClamp)
		}
		if g.WorldBounds(ei, ej) {
			id := g.Grid2RowMajor(ei, ej)
			g.logOdds[id] = clamp(g.logOdds[id]+logOddsOccupied-logOddsFree, -logOddsClamp, logOddsClamp)
		}
	}
}

// LikelihoodFieldModel scores scan against the map as if it had been taken
// from pose: the product, over rays, of a Gaussian density in the distance
// from the ray's endpoint to the nearest occupied cell, mixed with a small
// uniform floor (zRandom) so an unmatched ray never drives the whole product
// to exactly zero on its own.
func (g *OccupancyGrid) LikelihoodFieldModel(scan []float64, pose transform.Transform2D) float64 {
	if len(scan) == 0 {
		return 1.0
	}
	angStep := g.FOV / float64(len(scan)-1)
	if len(scan) == 1 {
		angStep = 0
	}
	start := pose.Theta - g.FOV/2

	p := 1.0
	for k, r := range scan {
		if math.IsNaN(r) || r <= 0 || r >= g.MaxRange {
			continue
		}
		beamAngle := start + float64(k)*angStep
		ex := pose.Point[0] + r*math.Cos(beamAngle)
		ey := pose.Point[1] + r*math.Sin(beamAngle)
		ei, ej := g.World2Grid(ex, ey)

		dist := g.distToNearestOccupied(ei, ej)
		density := slamutil.PDFNormal(dist, hitSigma*hitSigma)
		p *= zHit*density + zRandom/g.MaxRange
	}
	return p
}

func (g *OccupancyGrid) distToNearestOccupied(i, j int) float64 {
	best := math.Inf(1)
	for di := -searchRadiusCell; di <= searchRadiusCell; di++ {
		for dj := -searchRadiusCell; dj <= searchRadiusCell; dj++ {
			ni, nj := i+di, j+dj
			if !g.WorldBounds(ni, nj) {
				continue
			}
			id := g.Grid2RowMajor(ni, nj)
			if g.logOdds[id] < logOddsOccThresh {
				continue
			}
			d := math.Hypot(float64(di), float64(dj)) * g.Res
			if d < best {
				best = d
			}
		}
	}
	if math.IsInf(best, 1) {
		return float64(searchRadiusCell+1) * g.Res
	}
	return best
}

// Occupancy returns the conventional row-major encoding (spec.md §6).
func (g *OccupancyGrid) Occupancy() []int8 {
	out := make([]int8, len(g.logOdds))
	for i, lo := range g.logOdds {
		switch {
		case lo >= logOddsOccThresh:
			out[i] = OccOccup
		case lo <= -logOddsOccThresh:
			out[i] = OccFree
		default:
			out[i] = OccUnknown
		}
	}
	return out
}

// Clone returns an independent copy, preserving dimensions and origin
// exactly (spec.md §8 invariant: every particle's grid dimensions and world
// origin are identical to the seed grid's).
func (g *OccupancyGrid) Clone() GridMap {
	cp := *g
	cp.logOdds = make([]float64, len(g.logOdds))
	copy(cp.logOdds, g.logOdds)
	return &cp
}

// MarkOccupied forces cell (i, j)'s log-odds to the occupied extreme,
// independent of any scan. Used by tests and demos to seed ground-truth
// obstacles without simulating a ray-casting sensor.
func (g *OccupancyGrid) MarkOccupied(i, j int) {
	if !g.WorldBounds(i, j) {
		return
	}
	g.logOdds[g.Grid2RowMajor(i, j)] = logOddsClamp
}

// MarkFree forces cell (i, j)'s log-odds to the free extreme.
func (g *OccupancyGrid) MarkFree(i, j int) {
	if !g.WorldBounds(i, j) {
		return
	}
	g.logOdds[g.Grid2RowMajor(i, j)] = -logOddsClamp
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// bresenham returns the integer grid cells strictly between (i0,j0) and
// (i1,j1), excluding the endpoint, for marking free space along a ray.
func bresenham(i0, j0, i1, j1 int) [][2]int {
	var cells [][2]int

	dx := abs(i1 - i0)
	dy := -abs(j1 - j0)
	sx, sy := 1, 1
	if i0 > i1 {
		sx = -1
	}
	if j0 > j1 {
		sy = -1
	}
	err := dx + dy

	i, j := i0, j0
	for {
		if i == i1 && j == j1 {
			break
		}
		cells = append(cells, [2]int{i, j})
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			i += sx
		}
		if e2 <= dx {
			err += dx
			j += sy
		}
	}
	return cells
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
