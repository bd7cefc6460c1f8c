// Package scanmatch defines the scan-matcher collaborator spec.md §9 calls
// "the only abstraction needed... one operation: match(T_init, scan) ->
// (T_icp, success)", plus the identity/no-op variant it names for tests.
package scanmatch

import "github.com/SiChiTong/ROS-Turtlebot-Navigation/transform"

// ScanMatcher aligns a scan against a map and reports the rigid transform
// that best explains it, starting from an initial guess. success is false
// when the matcher could not converge, in which case the particle filter
// falls back to the motion-model-only update (spec.md §4.4 step 3).
type ScanMatcher interface {
	Match(tInit transform.Transform2D, scan []float64) (tICP transform.Transform2D, success bool)
}

// IdentityMatcher always "succeeds" by returning the initial guess
// unmodified. Grounded on spec.md §9: "Variants: real ICP, identity/noop for
// tests."
type IdentityMatcher struct{}

func (IdentityMatcher) Match(tInit transform.Transform2D, _ []float64) (transform.Transform2D, bool) {
	return tInit, true
}

// AlwaysFailMatcher always reports failure, forcing the motion-model
// fallback path (spec.md §4.4 step 3) in tests.
type AlwaysFailMatcher struct{}

func (AlwaysFailMatcher) Match(tInit transform.Transform2D, _ []float64) (transform.Transform2D, bool) {
	return transform.Transform2D{}, false
}
