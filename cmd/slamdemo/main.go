// Command slamdemo wires a simulated scan/odometry source, a
// ParticleFilter, and a DStarLite planner into a single step loop — the
// same role jhoydich-particle-filter/example/simpleExample.go plays for the
// teacher repo, adapted from bearing-only triangulation to occupancy-grid
// SLAM and incremental path planning.
package main

import (
	"flag"
	"log"
	"math"

	"github.com/paulmach/orb"

	"github.com/SiChiTong/ROS-Turtlebot-Navigation/gridmap"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/particlefilter"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/planner"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/scanmatch"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/slamconfig"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/transform"
)

func main() {
	steps := flag.Int("steps", 20, "number of SLAM+planner steps to run")
	flag.Parse()

	seed := gridmap.NewOccupancyGrid(40, 40, 0.25, orb.Point{0, 0})
	// Simulated ground truth: a wall of cells the scan matcher and planner
	// will both have to contend with.
	for j := 10; j < 30; j++ {
		seed.MarkOccupied(20, j)
	}

	cfg := slamconfig.DefaultConfig()
	cfg.NumParticles = 50

	pf := particlefilter.New(cfg, scanmatch.IdentityMatcher{}, transform.NewPose(0, 0, 0), seed)

	plannerCfg := slamconfig.DefaultPlannerConfig()
	dsl := planner.New(plannerCfg, seed)
	dsl.InitPath(orb.Point{0, 0}, orb.Point{8, 8})
	if err := dsl.PlanPath(); err != nil {
		log.Fatalf("initial plan failed: %v", err)
	}

	prevOdom := transform.NewPose(0, 0, 0)
	curOdom := prevOdom

	for i := 0; i < *steps; i++ {
		u := transform.Twist2D{Vx: 0.2, W: 0}
		curOdom = transform.NewPose(curOdom.Theta, curOdom.X()+u.Vx*math.Cos(curOdom.Theta), curOdom.Y()+u.Vx*math.Sin(curOdom.Theta))

		scan := make([]float64, 8)
		for k := range scan {
			scan[k] = 3.0
		}

		if err := pf.SLAM(scan, u, curOdom, prevOdom); err != nil {
			log.Fatalf("step %d: SLAM failed: %v", i, err)
		}
		prevOdom = curOdom

		if err := dsl.PathTraversal(); err != nil {
			log.Fatalf("step %d: path traversal failed: %v", i, err)
		}

		pose := pf.GetRobotState()
		log.Printf("step %d: estimated pose theta=%.3f x=%.3f y=%.3f", i, pose.Theta, pose.Point[0], pose.Point[1])
	}

	path := dsl.GetPath()
	log.Printf("final path length: %d cells", len(path))
}
