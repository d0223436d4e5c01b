package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flowsim/internal/fluid"
	"github.com/san-kum/flowsim/internal/geom"
	"github.com/san-kum/flowsim/internal/solver"
)

const (
	DefaultNx          = 128
	DefaultNy          = 64
	DefaultWidth       = 2.0
	DefaultHeight      = 1.0
	DefaultDt          = 0.01
	DefaultCourant     = 0.5
	DefaultViscosity   = 1e-4
	DefaultInflowSpeed = 1.0
	DefaultIters       = 80
	DefaultTol         = 1e-4
	DefaultSweeps      = 10
)

type Config struct {
	Nx     int     `yaml:"nx"`
	Ny     int     `yaml:"ny"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	Dt          float64 `yaml:"dt"`
	Courant     float64 `yaml:"courant"`
	Viscosity   float64 `yaml:"viscosity"`
	InflowSpeed float64 `yaml:"inflow_speed"`
	InflowAngle float64 `yaml:"inflow_angle"` // degrees from +x

	Obstacle ObstacleConfig `yaml:"obstacle"`
	Pressure PressureConfig `yaml:"pressure"`

	DiffusionSweeps int    `yaml:"diffusion_sweeps"`
	Slip            string `yaml:"slip"`    // no-slip | free-slip
	Lateral         string `yaml:"lateral"` // slip | open

	Tracer TracerConfig `yaml:"tracer"`
}

type ObstacleConfig struct {
	Shape string  `yaml:"shape"` // none | circle | rectangle | ellipse | silhouette
	CX    float64 `yaml:"cx"`
	CY    float64 `yaml:"cy"`
	R     float64 `yaml:"r"`
	RX    float64 `yaml:"rx"`
	RY    float64 `yaml:"ry"`
	X0    float64 `yaml:"x0"`
	Y0    float64 `yaml:"y0"`
	X1    float64 `yaml:"x1"`
	Y1    float64 `yaml:"y1"`

	// Silhouette masks carry a pixel grid and cannot be expressed in a
	// yaml file; drivers set this field directly.
	Silhouette *geom.Silhouette `yaml:"-"`
}

type PressureConfig struct {
	Iters  int     `yaml:"iters"`
	Tol    float64 `yaml:"tol"`
	Scheme string  `yaml:"scheme"` // gauss-seidel | jacobi
}

type TracerConfig struct {
	Enabled bool    `yaml:"enabled"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Rate    float64 `yaml:"rate"`
}

func DefaultConfig() *Config {
	return &Config{
		Nx:          DefaultNx,
		Ny:          DefaultNy,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Dt:          DefaultDt,
		Courant:     DefaultCourant,
		Viscosity:   DefaultViscosity,
		InflowSpeed: DefaultInflowSpeed,
		Obstacle:    ObstacleConfig{Shape: "none"},
		Pressure: PressureConfig{
			Iters:  DefaultIters,
			Tol:    DefaultTol,
			Scheme: "gauss-seidel",
		},
		DiffusionSweeps: DefaultSweeps,
		Slip:            "no-slip",
		Lateral:         "slip",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run parameters. Geometry is validated separately by
// the mask builder at engine construction.
func (c *Config) Validate() error {
	if c.Nx < 3 || c.Ny < 3 {
		return fmt.Errorf("%w: grid must be at least 3x3, got %dx%d", fluid.ErrParameterBounds, c.Nx, c.Ny)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: domain size must be positive", fluid.ErrParameterBounds)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", fluid.ErrParameterBounds, c.Dt)
	}
	if c.Courant <= 0 {
		return fmt.Errorf("%w: courant constant must be positive, got %g", fluid.ErrParameterBounds, c.Courant)
	}
	if c.Viscosity < 0 {
		return fmt.Errorf("%w: viscosity must be non-negative, got %g", fluid.ErrParameterBounds, c.Viscosity)
	}
	if c.Pressure.Iters <= 0 {
		return fmt.Errorf("%w: pressure iteration cap must be positive", fluid.ErrParameterBounds)
	}
	if c.Pressure.Tol <= 0 {
		return fmt.Errorf("%w: pressure tolerance must be positive", fluid.ErrParameterBounds)
	}
	if _, err := solver.ParseScheme(c.Pressure.Scheme); err != nil {
		return err
	}
	if _, err := solver.ParseSlipMode(c.Slip); err != nil {
		return err
	}
	if _, err := solver.ParseLateralMode(c.Lateral); err != nil {
		return err
	}
	return nil
}

// BuildShape resolves the obstacle section into a geometric predicate, or
// nil for an empty domain.
func (c *Config) BuildShape() (geom.Shape, error) {
	o := c.Obstacle
	switch o.Shape {
	case "none", "":
		return nil, nil
	case "circle":
		return geom.Circle{CX: o.CX, CY: o.CY, R: o.R}, nil
	case "rectangle":
		return geom.Rectangle{X0: o.X0, Y0: o.Y0, X1: o.X1, Y1: o.Y1}, nil
	case "ellipse":
		return geom.Ellipse{CX: o.CX, CY: o.CY, RX: o.RX, RY: o.RY}, nil
	case "silhouette":
		if o.Silhouette == nil {
			return nil, fmt.Errorf("%w: silhouette shape selected but no bitmap supplied", fluid.ErrInvalidGeometry)
		}
		return *o.Silhouette, nil
	}
	return nil, fmt.Errorf("%w: unknown obstacle shape %q", fluid.ErrInvalidGeometry, o.Shape)
}

// InflowVelocity resolves the inflow magnitude and angle into components.
func (c *Config) InflowVelocity() (u, v float64) {
	rad := c.InflowAngle * math.Pi / 180
	return c.InflowSpeed * math.Cos(rad), c.InflowSpeed * math.Sin(rad)
}

// SolverOptions converts the validated config into solver parameters.
func (c *Config) SolverOptions() solver.Options {
	scheme, _ := solver.ParseScheme(c.Pressure.Scheme)
	slip, _ := solver.ParseSlipMode(c.Slip)
	lateral, _ := solver.ParseLateralMode(c.Lateral)
	u, v := c.InflowVelocity()
	return solver.Options{
		Viscosity:       c.Viscosity,
		DiffusionSweeps: c.DiffusionSweeps,
		ProjectionIters: c.Pressure.Iters,
		ProjectionTol:   c.Pressure.Tol,
		Scheme:          scheme,
		Slip:            slip,
		Lateral:         lateral,
		InflowU:         u,
		InflowV:         v,
	}
}
