package geom

import (
	"fmt"

	"github.com/san-kum/flowsim/internal/fluid"
)

// DefaultThreshold is the occupancy cutoff for silhouette pixels when the
// caller leaves Threshold at zero.
const DefaultThreshold = 0.5

// Silhouette places an imported bitmap into the box [X0,X0+W]x[Y0,Y0+H].
// Pixels is row-major with Pixels[py][px], py increasing upward to match
// domain coordinates; image loaders are expected to flip before handing
// the grid over. A pixel at or above Threshold counts as solid, which is
// the thresholding contract the importer exposes. Arbitrary topology is
// fine: holes, concave outlines and disconnected blobs need no special
// handling downstream.
type Silhouette struct {
	Pixels    [][]float64
	Threshold float64
	X0, Y0    float64
	W, H      float64
}

func (s Silhouette) threshold() float64 {
	if s.Threshold == 0 {
		return DefaultThreshold
	}
	return s.Threshold
}

// PixelToOccupancy applies the silhouette's thresholding contract to a
// single pixel value.
func (s Silhouette) PixelToOccupancy(pixel float64) bool {
	return pixel >= s.threshold()
}

func (s Silhouette) Contains(x, y float64) bool {
	if x < s.X0 || x > s.X0+s.W || y < s.Y0 || y > s.Y0+s.H {
		return false
	}
	rows := len(s.Pixels)
	cols := len(s.Pixels[0])

	// Nearest-neighbor resample from domain box to pixel coordinates.
	px := int((x - s.X0) / s.W * float64(cols))
	py := int((y - s.Y0) / s.H * float64(rows))
	if px >= cols {
		px = cols - 1
	}
	if py >= rows {
		py = rows - 1
	}
	return s.PixelToOccupancy(s.Pixels[py][px])
}

func (s Silhouette) Validate(width, height float64) error {
	if len(s.Pixels) == 0 || len(s.Pixels[0]) == 0 {
		return fmt.Errorf("%w: silhouette bitmap is empty", fluid.ErrInvalidGeometry)
	}
	cols := len(s.Pixels[0])
	for _, row := range s.Pixels {
		if len(row) != cols {
			return fmt.Errorf("%w: silhouette bitmap rows have uneven length", fluid.ErrInvalidGeometry)
		}
	}
	if s.W <= 0 || s.H <= 0 {
		return fmt.Errorf("%w: silhouette has degenerate extent %gx%g",
			fluid.ErrInvalidGeometry, s.W, s.H)
	}
	if s.X0 < 0 || s.X0+s.W > width || s.Y0 < 0 || s.Y0+s.H > height {
		return fmt.Errorf("%w: silhouette exceeds %gx%g domain", fluid.ErrInvalidGeometry, width, height)
	}
	return nil
}
