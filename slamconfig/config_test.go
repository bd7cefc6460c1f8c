package slamconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigSane(t *testing.T) {
	cfg := DefaultConfig()
	assert.Greater(t, cfg.NumParticles, 0)
	assert.Greater(t, cfg.K, 0)
	assert.Greater(t, cfg.ScanLikelihoodMax, cfg.ScanLikelihoodMin)
	assert.Greater(t, cfg.PoseLikelihoodMax, cfg.PoseLikelihoodMin)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_particles: 75\nseed: 123\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.NumParticles)
	assert.Equal(t, int64(123), cfg.Seed)
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultConfig().K, cfg.K)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultPlannerConfigSane(t *testing.T) {
	cfg := DefaultPlannerConfig()
	assert.Greater(t, cfg.VisibilityRadius, 0)
	assert.Greater(t, cfg.OccupancyCost, 0.0)
}

func TestLoadPlannerOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("visibility_radius: 9\nmax_plan_iterations: 500\n"), 0o644))

	cfg, err := LoadPlanner(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.VisibilityRadius)
	assert.Equal(t, 500, cfg.MaxPlanIterations)
	assert.Equal(t, DefaultPlannerConfig().OccupancyCost, cfg.OccupancyCost)
}
