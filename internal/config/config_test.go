package config

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/flowsim/internal/fluid"
	"github.com/san-kum/flowsim/internal/geom"
	"github.com/san-kum/flowsim/internal/solver"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidateRejectsBadParameters(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny grid", func(c *Config) { c.Nx = 2 }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.01 }},
		{"zero courant", func(c *Config) { c.Courant = 0 }},
		{"negative viscosity", func(c *Config) { c.Viscosity = -1 }},
		{"zero pressure iters", func(c *Config) { c.Pressure.Iters = 0 }},
		{"zero pressure tol", func(c *Config) { c.Pressure.Tol = 0 }},
		{"unknown scheme", func(c *Config) { c.Pressure.Scheme = "sor" }},
		{"unknown slip", func(c *Config) { c.Slip = "sticky" }},
		{"unknown lateral", func(c *Config) { c.Lateral = "wrap" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, fluid.ErrParameterBounds) {
				t.Errorf("got %v, want ErrParameterBounds", err)
			}
		})
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Nx = 96
	cfg.Viscosity = 3e-3
	cfg.Obstacle = ObstacleConfig{Shape: "circle", CX: 0.4, CY: 0.5, R: 0.15}
	cfg.Tracer = TracerConfig{Enabled: true, X: 0.1, Y: 0.5, Rate: 2}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Nx != 96 || got.Viscosity != 3e-3 {
		t.Errorf("scalar fields lost: nx=%d nu=%g", got.Nx, got.Viscosity)
	}
	if got.Obstacle != cfg.Obstacle {
		t.Errorf("obstacle section lost: %+v", got.Obstacle)
	}
	if got.Tracer != cfg.Tracer {
		t.Errorf("tracer section lost: %+v", got.Tracer)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("loading a missing file should fail")
	}
}

func TestBuildShape(t *testing.T) {
	cfg := DefaultConfig()
	if s, err := cfg.BuildShape(); err != nil || s != nil {
		t.Errorf("shape none: got %v, %v", s, err)
	}

	cfg.Obstacle = ObstacleConfig{Shape: "circle", CX: 1, CY: 0.5, R: 0.2}
	s, err := cfg.BuildShape()
	if err != nil {
		t.Fatalf("circle: %v", err)
	}
	if _, ok := s.(geom.Circle); !ok {
		t.Errorf("got %T, want geom.Circle", s)
	}

	cfg.Obstacle = ObstacleConfig{Shape: "silhouette"}
	if _, err := cfg.BuildShape(); !errors.Is(err, fluid.ErrInvalidGeometry) {
		t.Errorf("silhouette without bitmap: %v, want ErrInvalidGeometry", err)
	}

	cfg.Obstacle = ObstacleConfig{Shape: "hexagon"}
	if _, err := cfg.BuildShape(); !errors.Is(err, fluid.ErrInvalidGeometry) {
		t.Errorf("unknown shape: %v, want ErrInvalidGeometry", err)
	}
}

func TestInflowVelocityAngle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InflowSpeed = 2
	cfg.InflowAngle = 90

	u, v := cfg.InflowVelocity()
	if math.Abs(u) > 1e-12 || math.Abs(v-2) > 1e-12 {
		t.Errorf("90 degrees: got (%v, %v), want (0, 2)", u, v)
	}
}

func TestSolverOptionsConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slip = "free-slip"
	cfg.Lateral = "open"
	cfg.Pressure.Scheme = "jacobi"

	opts := cfg.SolverOptions()
	if opts.Scheme != solver.Jacobi || opts.Slip != solver.FreeSlip || opts.Lateral != solver.LateralOpen {
		t.Errorf("mode mapping wrong: %+v", opts)
	}
	if opts.ProjectionIters != cfg.Pressure.Iters || opts.ProjectionTol != cfg.Pressure.Tol {
		t.Errorf("pressure parameters lost: %+v", opts)
	}
}

func TestPresets(t *testing.T) {
	for scenario, variants := range Presets {
		for name := range variants {
			cfg := GetPreset(scenario, name)
			if cfg == nil {
				t.Fatalf("GetPreset(%q, %q) returned nil", scenario, name)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s/%s does not validate: %v", scenario, name, err)
			}
		}
	}

	if GetPreset("channel", "nope") != nil {
		t.Error("unknown variant should return nil")
	}
	if GetPreset("nope", "uniform") != nil {
		t.Error("unknown scenario should return nil")
	}
	if names := ListPresets("cylinder"); len(names) != 2 {
		t.Errorf("cylinder variants: %v", names)
	}

	// Presets are handed out by value; mutating one must not poison the
	// shared table.
	cfg := GetPreset("channel", "uniform")
	cfg.Nx = 1
	if Presets["channel"]["uniform"].Nx == 1 {
		t.Error("preset table was mutated through a returned copy")
	}
}
