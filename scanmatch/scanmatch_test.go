package scanmatch

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/SiChiTong/ROS-Turtlebot-Navigation/transform"
)

func TestIdentityMatcherReturnsInitGuess(t *testing.T) {
	tInit := transform.NewTransform2D(orb.Point{1, 2}, 0.5)
	got, ok := IdentityMatcher{}.Match(tInit, []float64{1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, tInit, got)
}

func TestAlwaysFailMatcherFails(t *testing.T) {
	tInit := transform.NewTransform2D(orb.Point{1, 2}, 0.5)
	_, ok := AlwaysFailMatcher{}.Match(tInit, []float64{1, 2, 3})
	assert.False(t, ok)
}
