package planner

import "errors"

// ErrPlanIterationCap is returned by PlanPath when it exceeds
// PlannerConfig.MaxPlanIterations without reaching consistency — spec.md
// §4.9/§9's resolved open question: "planPath may loop indefinitely...
// implementations should cap iterations."
var ErrPlanIterationCap = errors.New("planner: planPath exceeded its iteration cap")

// ErrNoTraversableNeighbor is returned by PathTraversal when every neighbor
// of the current cell is occupied or inflated, so the robot has nowhere to
// step.
var ErrNoTraversableNeighbor = errors.New("planner: no traversable neighbor from current cell")
