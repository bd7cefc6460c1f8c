// Package particlefilter implements the Rao-Blackwellized particle filter
// core of spec.md §4.2-§4.6: the motion model, scan-matched Gaussian
// proposal, normalization, and resampling. Naming follows the teacher
// (jhoydich-particle-filter)'s Particle/ParticleFilter split.
package particlefilter

import (
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/gridmap"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/transform"
)

// Particle holds one SLAM trajectory hypothesis: its weight, current and
// previous pose, and its own owned occupancy grid (spec.md §3).
type Particle struct {
	Weight   float64
	Pose     transform.Pose
	PrevPose transform.Pose
	Grid     gridmap.GridMap
}

// NewParticle constructs a particle at pose with its own grid. PrevPose
// defaults to Pose, resolving spec.md §9's open question about a freshly
// constructed particle's previous pose being otherwise uninitialized.
func NewParticle(weight float64, pose transform.Pose, grid gridmap.GridMap) *Particle {
	return &Particle{
		Weight:   weight,
		Pose:     pose,
		PrevPose: pose,
		Grid:     grid,
	}
}

// Clone deep-copies the particle, including its own grid, so resampling can
// duplicate a particle without aliasing (spec.md §3 Ownership).
func (p *Particle) Clone() *Particle {
	return &Particle{
		Weight:   p.Weight,
		Pose:     p.Pose,
		PrevPose: p.PrevPose,
		Grid:     p.Grid.Clone(),
	}
}
