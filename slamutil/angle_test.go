package slamutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnglePi(t *testing.T) {
	tests := []struct {
		name  string
		theta float64
		want  float64
	}{
		{"zero", 0, 0},
		{"already in range", math.Pi / 2, math.Pi / 2},
		{"exactly pi stays pi", math.Pi, math.Pi},
		{"just over pi wraps negative", math.Pi + 0.1, -math.Pi + 0.1},
		{"negative pi wraps to pi", -math.Pi, math.Pi},
		{"large positive multiple", 2*math.Pi + 0.3, 0.3},
		{"large negative multiple", -2*math.Pi - 0.3, -0.3},
		{"several full turns", 10*math.Pi + 0.2, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAnglePi(tt.theta)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.True(t, got > -math.Pi-1e-12 && got <= math.Pi+1e-12)
		})
	}
}

func TestAlmostEqual(t *testing.T) {
	assert.True(t, AlmostEqual(1.0, 1.0))
	assert.True(t, AlmostEqual(1.0, 1.0+Tolerance/2))
	assert.False(t, AlmostEqual(1.0, 1.0+Tolerance*10))
	assert.True(t, AlmostEqual(-0.0, 0.0))
}
