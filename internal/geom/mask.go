package geom

// BuildMask rasterizes a shape onto an nx by ny lattice with cell spacing
// dx, dy. A cell is occupied when its center lies inside the shape. A nil
// shape yields an all-fluid mask.
func BuildMask(nx, ny int, dx, dy float64, shape Shape) ([]bool, error) {
	mask := make([]bool, nx*ny)
	if shape == nil {
		return mask, nil
	}
	if err := shape.Validate(float64(nx)*dx, float64(ny)*dy); err != nil {
		return nil, err
	}
	for i := 0; i < nx; i++ {
		cx := (float64(i) + 0.5) * dx
		for j := 0; j < ny; j++ {
			cy := (float64(j) + 0.5) * dy
			mask[i*ny+j] = shape.Contains(cx, cy)
		}
	}
	return mask, nil
}
