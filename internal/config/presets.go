package config

// Presets are named starting points for the CLI and the live view,
// keyed by scenario then variant.
var Presets = map[string]map[string]*Config{
	"channel": {
		"uniform": {
			Nx: 64, Ny: 64, Width: 1.0, Height: 1.0,
			Dt: 0.005, Courant: 0.5, Viscosity: 0,
			InflowSpeed: 1.0,
			Obstacle:    ObstacleConfig{Shape: "none"},
			Pressure:    PressureConfig{Iters: 60, Tol: 1e-5, Scheme: "gauss-seidel"},
		},
		"viscous": {
			Nx: 128, Ny: 64, Width: 2.0, Height: 1.0,
			Dt: 0.01, Courant: 0.5, Viscosity: 1e-3,
			InflowSpeed:     1.0,
			Obstacle:        ObstacleConfig{Shape: "none"},
			Pressure:        PressureConfig{Iters: 80, Tol: 1e-4, Scheme: "gauss-seidel"},
			DiffusionSweeps: 15,
		},
	},
	"cylinder": {
		"wake": {
			Nx: 128, Ny: 64, Width: 2.0, Height: 1.0,
			Dt: 0.005, Courant: 0.5, Viscosity: 1e-4,
			InflowSpeed: 1.0,
			Obstacle:    ObstacleConfig{Shape: "circle", CX: 0.5, CY: 0.5, R: 0.1},
			Pressure:    PressureConfig{Iters: 100, Tol: 1e-4, Scheme: "gauss-seidel"},
			Tracer:      TracerConfig{Enabled: true, X: 0.1, Y: 0.5, Rate: 5.0},
		},
		"slippery": {
			Nx: 128, Ny: 64, Width: 2.0, Height: 1.0,
			Dt: 0.005, Courant: 0.5, Viscosity: 1e-4,
			InflowSpeed: 1.0,
			Obstacle:    ObstacleConfig{Shape: "circle", CX: 0.5, CY: 0.5, R: 0.1},
			Pressure:    PressureConfig{Iters: 100, Tol: 1e-4, Scheme: "gauss-seidel"},
			Slip:        "free-slip",
		},
	},
	"plate": {
		"blunt": {
			Nx: 128, Ny: 64, Width: 2.0, Height: 1.0,
			Dt: 0.005, Courant: 0.5, Viscosity: 5e-4,
			InflowSpeed: 1.0,
			Obstacle:    ObstacleConfig{Shape: "rectangle", X0: 0.45, Y0: 0.3, X1: 0.55, Y1: 0.7},
			Pressure:    PressureConfig{Iters: 100, Tol: 1e-4, Scheme: "gauss-seidel"},
			Tracer:      TracerConfig{Enabled: true, X: 0.1, Y: 0.5, Rate: 5.0},
		},
	},
	"ellipse": {
		"streamlined": {
			Nx: 128, Ny: 64, Width: 2.0, Height: 1.0,
			Dt: 0.005, Courant: 0.5, Viscosity: 1e-4,
			InflowSpeed: 1.0,
			Obstacle:    ObstacleConfig{Shape: "ellipse", CX: 0.5, CY: 0.5, RX: 0.25, RY: 0.08},
			Pressure:    PressureConfig{Iters: 100, Tol: 1e-4, Scheme: "gauss-seidel"},
			Tracer:      TracerConfig{Enabled: true, X: 0.1, Y: 0.5, Rate: 5.0},
		},
	},
}

func GetPreset(scenario, preset string) *Config {
	variants, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := variants[preset]
	if !ok {
		return nil
	}
	out := *cfg
	fillDefaults(&out)
	return &out
}

func ListPresets(scenario string) []string {
	variants, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	return names
}

// fillDefaults backfills fields a terse preset left at zero.
func fillDefaults(c *Config) {
	if c.Courant == 0 {
		c.Courant = DefaultCourant
	}
	if c.Pressure.Iters == 0 {
		c.Pressure.Iters = DefaultIters
	}
	if c.Pressure.Tol == 0 {
		c.Pressure.Tol = DefaultTol
	}
	if c.Pressure.Scheme == "" {
		c.Pressure.Scheme = "gauss-seidel"
	}
	if c.DiffusionSweeps == 0 {
		c.DiffusionSweeps = DefaultSweeps
	}
	if c.Slip == "" {
		c.Slip = "no-slip"
	}
	if c.Lateral == "" {
		c.Lateral = "slip"
	}
}
