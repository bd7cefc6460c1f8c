package gridmap

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SiChiTong/ROS-Turtlebot-Navigation/transform"
)

func TestWorld2GridRoundTrip(t *testing.T) {
	g := NewOccupancyGrid(20, 20, 0.5, orb.Point{-5, -5})

	i, j := g.World2Grid(-5, -5)
	assert.Equal(t, 0, i)
	assert.Equal(t, 0, j)

	center := g.Grid2World(i, j)
	i2, j2 := g.World2Grid(center[0], center[1])
	assert.Equal(t, i, i2)
	assert.Equal(t, j, j2)
}

func TestGrid2RowMajorRoundTrip(t *testing.T) {
	g := NewOccupancyGrid(10, 15, 0.1, orb.Point{0, 0})
	for i := 0; i < 10; i++ {
		for j := 0; j < 15; j++ {
			id := g.Grid2RowMajor(i, j)
			gi, gj := g.RowMajor2Grid(id)
			assert.Equal(t, i, gi)
			assert.Equal(t, j, gj)
		}
	}
}

func TestWorldBounds(t *testing.T) {
	g := NewOccupancyGrid(5, 5, 1.0, orb.Point{0, 0})
	assert.True(t, g.WorldBounds(0, 0))
	assert.True(t, g.WorldBounds(4, 4))
	assert.False(t, g.WorldBounds(-1, 0))
	assert.False(t, g.WorldBounds(0, -1))
	assert.False(t, g.WorldBounds(5, 0))
	assert.False(t, g.WorldBounds(0, 5))
}

func TestNewGridAllUnknown(t *testing.T) {
	g := NewOccupancyGrid(3, 3, 1.0, orb.Point{0, 0})
	occ := g.Occupancy()
	for _, v := range occ {
		assert.Equal(t, OccUnknown, v)
	}
}

func TestMarkOccupiedAndFree(t *testing.T) {
	g := NewOccupancyGrid(5, 5, 1.0, orb.Point{0, 0})
	g.MarkOccupied(2, 2)
	g.MarkFree(0, 0)

	occ := g.Occupancy()
	assert.Equal(t, OccOccup, occ[g.Grid2RowMajor(2, 2)])
	assert.Equal(t, OccFree, occ[g.Grid2RowMajor(0, 0)])
	assert.Equal(t, OccUnknown, occ[g.Grid2RowMajor(1, 1)])
}

func TestMarkOutOfBoundsIsNoop(t *testing.T) {
	g := NewOccupancyGrid(5, 5, 1.0, orb.Point{0, 0})
	assert.NotPanics(t, func() {
		g.MarkOccupied(100, 100)
		g.MarkFree(-1, -1)
	})
}

func TestIntegrateScanEmptyIsNoop(t *testing.T) {
	g := NewOccupancyGrid(10, 10, 0.5, orb.Point{0, 0})
	before := g.Occupancy()
	g.IntegrateScan(nil, transform.Transform2D{})
	after := g.Occupancy()
	assert.Equal(t, before, after)
}

func TestIntegrateScanMarksHitOccupied(t *testing.T) {
	g := NewOccupancyGrid(20, 20, 0.5, orb.Point{-5, -5})
	pose := transform.NewTransform2D(orb.Point{0, 0}, 0)
	scan := []float64{2.0}
	g.FOV = 0
	g.IntegrateScan(scan, pose)

	ei, ej := g.World2Grid(2, 0)
	occ := g.Occupancy()
	assert.Equal(t, OccOccup, occ[g.Grid2RowMajor(ei, ej)])
}

func TestIntegrateScanIgnoresInvalidRanges(t *testing.T) {
	g := NewOccupancyGrid(20, 20, 0.5, orb.Point{-5, -5})
	pose := transform.NewTransform2D(orb.Point{0, 0}, 0)
	before := g.Occupancy()
	g.IntegrateScan([]float64{0, -1, g.MaxRange, g.MaxRange + 1}, pose)
	after := g.Occupancy()
	assert.Equal(t, before, after)
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewOccupancyGrid(4, 4, 1.0, orb.Point{0, 0})
	g.MarkOccupied(1, 1)

	cloneIface := g.Clone()
	clone, ok := cloneIface.(*OccupancyGrid)
	require.True(t, ok)

	clone.MarkOccupied(2, 2)

	origOcc := g.Occupancy()
	cloneOcc := clone.Occupancy()

	assert.Equal(t, OccOccup, origOcc[g.Grid2RowMajor(1, 1)])
	assert.Equal(t, OccUnknown, origOcc[g.Grid2RowMajor(2, 2)], "mutating the clone must not affect the original")
	assert.Equal(t, OccOccup, cloneOcc[clone.Grid2RowMajor(1, 1)])
	assert.Equal(t, OccOccup, cloneOcc[clone.Grid2RowMajor(2, 2)])
}

func TestCloneSameDimensionsAndOrigin(t *testing.T) {
	g := NewOccupancyGrid(7, 9, 0.25, orb.Point{1, 2})
	clone := g.Clone()

	xs, ys := clone.GridSize()
	assert.Equal(t, 7, xs)
	assert.Equal(t, 9, ys)
	assert.Equal(t, orb.Point{1, 2}, clone.GridOrigin())
	assert.Equal(t, 0.25, clone.Resolution())
}

func TestLikelihoodFieldModelEmptyScanReturnsOne(t *testing.T) {
	g := NewOccupancyGrid(10, 10, 0.5, orb.Point{0, 0})
	p := g.LikelihoodFieldModel(nil, transform.Transform2D{})
	assert.Equal(t, 1.0, p)
}

func TestLikelihoodFieldModelHigherNearObstacle(t *testing.T) {
	g := NewOccupancyGrid(20, 20, 0.5, orb.Point{-5, -5})
	pose := transform.NewTransform2D(orb.Point{0, 0}, 0)
	g.FOV = 0
	ei, ej := g.World2Grid(2, 0)
	g.MarkOccupied(ei, ej)

	scan := []float64{2.0}
	pNear := g.LikelihoodFieldModel(scan, pose)

	farPose := transform.NewTransform2D(orb.Point{0, 5}, 0)
	pFar := g.LikelihoodFieldModel(scan, farPose)

	assert.Greater(t, pNear, pFar)
}
