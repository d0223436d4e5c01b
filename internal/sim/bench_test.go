package sim

import (
	"testing"

	"github.com/san-kum/flowsim/internal/config"
)

func benchConfig(nx, ny int, obstacle bool) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Nx = nx
	cfg.Ny = ny
	cfg.Width = 2
	cfg.Height = 1
	if obstacle {
		cfg.Obstacle = config.ObstacleConfig{
			Shape: "circle", CX: 0.5, CY: 0.5, R: 0.1,
		}
	}
	return cfg
}

func benchTicks(b *testing.B, cfg *config.Config) {
	e, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	if err := e.Start(); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := e.Advance()
		if err != nil {
			b.Fatal(err)
		}
		if res.Diverged {
			b.Fatal("benchmark run diverged")
		}
	}
}

func BenchmarkTick64(b *testing.B) {
	benchTicks(b, benchConfig(64, 64, false))
}

func BenchmarkTick128(b *testing.B) {
	benchTicks(b, benchConfig(128, 64, false))
}

func BenchmarkTickCylinder128(b *testing.B) {
	benchTicks(b, benchConfig(128, 64, true))
}
