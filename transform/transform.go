// Package transform implements the 2D rigid-motion primitives spec.md §3
// names: Pose, Twist2D and Transform2D. Translation is carried as an
// orb.Point so downstream consumers that already speak orb geometry (grid
// coordinates, planner cells) interoperate without a conversion layer.
package transform

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/SiChiTong/ROS-Turtlebot-Navigation/slamutil"
)

// Pose is the 3-vector (theta, x, y) in the world frame. Theta is always
// kept wrapped to (-pi, pi] after every mutation.
type Pose struct {
	Theta float64
	Point orb.Point // (x, y)
}

// X is the pose's world-frame x coordinate.
func (p Pose) X() float64 { return p.Point[0] }

// Y is the pose's world-frame y coordinate.
func (p Pose) Y() float64 { return p.Point[1] }

// NewPose builds a pose and wraps theta.
func NewPose(theta, x, y float64) Pose {
	return Pose{Theta: slamutil.NormalizeAnglePi(theta), Point: orb.Point{x, y}}
}

// Wrap re-normalizes Theta in place. Call after any direct mutation of the
// Theta field.
func (p *Pose) Wrap() {
	p.Theta = slamutil.NormalizeAnglePi(p.Theta)
}

// Twist2D is planar velocity (vx, vy, omega); vy is unused by the motion
// model (spec.md §3).
type Twist2D struct {
	Vx, Vy, W float64
}

// Transform2D is a 2D rigid transform: rotation Theta followed by
// translation Point, i.e. the same (theta, x, y) triple as Pose expressed as
// an operator rather than a point.
type Transform2D struct {
	Theta float64
	Point orb.Point
}

// NewTransform2D builds a transform from a translation vector and rotation.
func NewTransform2D(v orb.Point, theta float64) Transform2D {
	return Transform2D{Theta: slamutil.NormalizeAnglePi(theta), Point: v}
}

// FromPose expresses a pose as a rigid transform, matching the repeated
// `Vector2D v(particle.pose(1), particle.pose(2)); Transform2D T_pose(v,
// particle.pose(0));` idiom in particle_filter.cpp.
func FromPose(p Pose) Transform2D {
	return Transform2D{Theta: p.Theta, Point: p.Point}
}

// ToPose is the inverse of FromPose.
func (t Transform2D) ToPose() Pose {
	return NewPose(t.Theta, t.Point[0], t.Point[1])
}

// Mul composes two rigid transforms, t followed by other, matching
// particle_filter.cpp's `T_x = T_x * Ticp`.
func (t Transform2D) Mul(other Transform2D) Transform2D {
	sin, cos := math.Sincos(t.Theta)
	x := t.Point[0] + cos*other.Point[0] - sin*other.Point[1]
	y := t.Point[1] + sin*other.Point[0] + cos*other.Point[1]
	theta := slamutil.NormalizeAnglePi(t.Theta + other.Theta)
	return Transform2D{Theta: theta, Point: orb.Point{x, y}}
}

// Displacement returns the transform's (theta, x, y) triple, matching
// TransformData2D in the original's `T.displacement()`.
func (t Transform2D) Displacement() (theta, x, y float64) {
	return t.Theta, t.Point[0], t.Point[1]
}

// DeltaOdom builds the rigid transform between two odometry poses: dx/dy
// are the raw world-frame differences (not rotated into prevOdom's frame)
// and dtheta is the wrapped angular difference. This is icpInitGuess in
// particle_filter.cpp, the ICP initial guess from odometry alone.
func DeltaOdom(curOdom, prevOdom Pose) Transform2D {
	dx := curOdom.X() - prevOdom.X()
	dy := curOdom.Y() - prevOdom.Y()
	dtheta := slamutil.NormalizeAnglePi(
		slamutil.NormalizeAnglePi(curOdom.Theta) - slamutil.NormalizeAnglePi(prevOdom.Theta),
	)
	return NewTransform2D(orb.Point{dx, dy}, dtheta)
}
