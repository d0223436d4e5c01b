package fluid

import (
	"math"
	"testing"
)

func TestNewGridAllocation(t *testing.T) {
	g := NewGrid(8, 4, 0.5, 0.25, nil, true)

	if len(g.U) != 32 || len(g.V) != 32 || len(g.P) != 32 || len(g.T) != 32 {
		t.Fatalf("expected 32 cells per field, got %d/%d/%d/%d",
			len(g.U), len(g.V), len(g.P), len(g.T))
	}
	if len(g.Solid) != 32 {
		t.Errorf("expected 32 mask entries, got %d", len(g.Solid))
	}

	g = NewGrid(8, 4, 0.5, 0.25, nil, false)
	if g.T != nil {
		t.Error("tracer field should be nil when disabled")
	}
}

func TestGridIdx(t *testing.T) {
	g := NewGrid(8, 4, 1, 1, nil, false)
	if got := g.Idx(2, 3); got != 11 {
		t.Errorf("Idx(2,3) = %d, want 11", got)
	}
}

func TestIsSolidOutOfRange(t *testing.T) {
	g := NewGrid(4, 4, 1, 1, nil, false)

	tests := []struct {
		name string
		i, j int
		want bool
	}{
		{"interior fluid", 1, 1, false},
		{"west of domain", -1, 0, true},
		{"east of domain", 4, 0, true},
		{"south of domain", 0, -1, true},
		{"north of domain", 0, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsSolid(tt.i, tt.j); got != tt.want {
				t.Errorf("IsSolid(%d,%d) = %v, want %v", tt.i, tt.j, got, tt.want)
			}
		})
	}
}

func TestMaxSpeedIgnoresSolid(t *testing.T) {
	solid := make([]bool, 16)
	solid[5] = true
	g := NewGrid(4, 4, 1, 1, solid, false)

	g.U[5] = 100 // solid cell, must not count
	g.U[6] = 3
	g.V[6] = 4

	if got := g.MaxSpeed(); math.Abs(got-5) > 1e-12 {
		t.Errorf("MaxSpeed = %f, want 5", got)
	}
}

func TestIsValid(t *testing.T) {
	g := NewGrid(4, 4, 1, 1, nil, true)
	if !g.IsValid() {
		t.Fatal("fresh grid should be valid")
	}

	g.V[3] = math.NaN()
	if g.IsValid() {
		t.Error("NaN in V should invalidate the grid")
	}
	g.V[3] = 0

	g.T[7] = math.Inf(1)
	if g.IsValid() {
		t.Error("Inf in tracer should invalidate the grid")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g := NewGrid(4, 4, 1, 1, nil, true)
	g.U[0] = 1.5
	g.T[2] = 0.25

	s := g.Snapshot()
	g.U[0] = -9
	g.T[2] = -9

	if s.U[0] != 1.5 {
		t.Errorf("snapshot U mutated with grid: got %f", s.U[0])
	}
	if s.T[2] != 0.25 {
		t.Errorf("snapshot tracer mutated with grid: got %f", s.T[2])
	}
}

func TestSnapshotVorticityOfRigidRotation(t *testing.T) {
	// u = -y, v = x has constant curl 2.
	g := NewGrid(8, 8, 1, 1, nil, false)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			idx := g.Idx(i, j)
			g.U[idx] = -(float64(j) + 0.5)
			g.V[idx] = float64(i) + 0.5
		}
	}

	curl := g.Snapshot().Vorticity()
	for i := 1; i < 7; i++ {
		for j := 1; j < 7; j++ {
			if math.Abs(curl[g.Idx(i, j)]-2) > 1e-12 {
				t.Fatalf("curl at (%d,%d) = %f, want 2", i, j, curl[g.Idx(i, j)])
			}
		}
	}
}
