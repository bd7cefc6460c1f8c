// Package slamconfig holds the configuration records spec.md §9 recommends
// in place of the long positional constructors spec.md §6 enumerates:
// "implementations should avoid positional constructors." Loaded from YAML,
// grounded on kwv-tudomesh's gopkg.in/yaml.v3-backed config pattern.
package slamconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the ParticleFilter constructor's parameter set (spec.md §6).
type Config struct {
	NumParticles int `yaml:"num_particles"`
	K            int `yaml:"k"`

	// Odometry-noise alpha coefficients (spec.md §4.3).
	Srr float64 `yaml:"srr"`
	Srt float64 `yaml:"srt"`
	Str float64 `yaml:"str"`
	Stt float64 `yaml:"stt"`

	// Diagonal entries of the motion-noise covariance (spec.md §3).
	MotionNoiseTheta float64 `yaml:"motion_noise_theta"`
	MotionNoiseX     float64 `yaml:"motion_noise_x"`
	MotionNoiseY     float64 `yaml:"motion_noise_y"`

	// Diagonal entries of the mode-sample covariance (spec.md §3).
	SampleRangeTheta float64 `yaml:"sample_range_theta"`
	SampleRangeX     float64 `yaml:"sample_range_x"`
	SampleRangeY     float64 `yaml:"sample_range_y"`

	ScanLikelihoodMin float64 `yaml:"scan_likelihood_min"`
	ScanLikelihoodMax float64 `yaml:"scan_likelihood_max"`
	PoseLikelihoodMin float64 `yaml:"pose_likelihood_min"`
	PoseLikelihoodMax float64 `yaml:"pose_likelihood_max"`

	// Seed is the deterministic RNGPool seed (spec.md §9 "expose a seed
	// entry point for deterministic tests").
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns reasonable defaults matching the magnitudes used in
// bmapping's own particle_filter tuning (small odometry noise, generous
// clamp bounds).
func DefaultConfig() Config {
	return Config{
		NumParticles:      30,
		K:                 20,
		Srr:               0.1,
		Srt:               0.2,
		Str:               0.1,
		Stt:               0.2,
		MotionNoiseTheta:  0.01,
		MotionNoiseX:      0.01,
		MotionNoiseY:      0.01,
		SampleRangeTheta:  0.02,
		SampleRangeX:      0.05,
		SampleRangeY:      0.05,
		ScanLikelihoodMin: 1e-3,
		ScanLikelihoodMax: 1.0,
		PoseLikelihoodMin: 1e-3,
		PoseLikelihoodMax: 1.0,
		Seed:              1,
	}
}

// Load reads a Config from a YAML file, starting from DefaultConfig so an
// incomplete file still produces usable values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("slamconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("slamconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// PlannerConfig is the DStarLite constructor's parameter set (spec.md §4.7,
// §9 open question 5).
type PlannerConfig struct {
	// VisibilityRadius is vizd, the half-width of the bounding box
	// pathTraversal reveals around the robot each step (spec.md §4.7).
	VisibilityRadius int `yaml:"visibility_radius"`

	// OccupancyCost is the large edge-cost constant used for occupied or
	// inflated neighbors (spec.md §4.7 edgeCost).
	OccupancyCost float64 `yaml:"occupancy_cost"`

	// MaxPlanIterations caps planPath's expansion loop, resolving spec.md
	// §9's open question ("planPath may loop indefinitely... implementations
	// should cap iterations"). Zero means "compute a default from grid
	// size" in planner.New.
	MaxPlanIterations int `yaml:"max_plan_iterations"`
}

// DefaultPlannerConfig returns the reference implementation's constants:
// vizd 3 cells and an occupancy cost of 1000. MaxPlanIterations is left at 0,
// so planner.New derives it from the grid size.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		VisibilityRadius: 3,
		OccupancyCost:    1000.0,
	}
}

// LoadPlanner reads a PlannerConfig from a YAML file.
func LoadPlanner(path string) (PlannerConfig, error) {
	cfg := DefaultPlannerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("slamconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("slamconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}
