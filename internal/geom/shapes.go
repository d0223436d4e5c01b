// Package geom builds obstacle occupancy masks from geometric shape
// descriptions. It is a leaf package: shapes know nothing about the
// solver, only whether a point lies inside them.
package geom

import (
	"fmt"

	"github.com/san-kum/flowsim/internal/fluid"
)

// Shape is a point-membership predicate in physical domain coordinates.
type Shape interface {
	// Contains reports whether the point (x, y) lies inside the shape.
	// Membership is boundary-inclusive.
	Contains(x, y float64) bool

	// Validate checks shape parameters against the physical domain size.
	Validate(width, height float64) error
}

// Circle is a disc of radius R centered at (CX, CY).
type Circle struct {
	CX, CY float64
	R      float64
}

func (c Circle) Contains(x, y float64) bool {
	dx, dy := x-c.CX, y-c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

func (c Circle) Validate(width, height float64) error {
	if c.R <= 0 {
		return fmt.Errorf("%w: circle radius %g must be positive", fluid.ErrInvalidGeometry, c.R)
	}
	if c.CX-c.R < 0 || c.CX+c.R > width || c.CY-c.R < 0 || c.CY+c.R > height {
		return fmt.Errorf("%w: circle (%g,%g) r=%g exceeds %gx%g domain",
			fluid.ErrInvalidGeometry, c.CX, c.CY, c.R, width, height)
	}
	return nil
}

// Rectangle is the axis-aligned box [X0,X1]x[Y0,Y1].
type Rectangle struct {
	X0, Y0, X1, Y1 float64
}

func (r Rectangle) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

func (r Rectangle) Validate(width, height float64) error {
	if r.X1 <= r.X0 || r.Y1 <= r.Y0 {
		return fmt.Errorf("%w: rectangle has degenerate area", fluid.ErrInvalidGeometry)
	}
	if r.X0 < 0 || r.X1 > width || r.Y0 < 0 || r.Y1 > height {
		return fmt.Errorf("%w: rectangle exceeds %gx%g domain", fluid.ErrInvalidGeometry, width, height)
	}
	return nil
}

// Ellipse has semi-axes RX, RY centered at (CX, CY).
type Ellipse struct {
	CX, CY float64
	RX, RY float64
}

func (e Ellipse) Contains(x, y float64) bool {
	dx := (x - e.CX) / e.RX
	dy := (y - e.CY) / e.RY
	return dx*dx+dy*dy <= 1
}

func (e Ellipse) Validate(width, height float64) error {
	if e.RX <= 0 || e.RY <= 0 {
		return fmt.Errorf("%w: ellipse semi-axes (%g,%g) must be positive",
			fluid.ErrInvalidGeometry, e.RX, e.RY)
	}
	if e.CX-e.RX < 0 || e.CX+e.RX > width || e.CY-e.RY < 0 || e.CY+e.RY > height {
		return fmt.Errorf("%w: ellipse exceeds %gx%g domain", fluid.ErrInvalidGeometry, width, height)
	}
	return nil
}
