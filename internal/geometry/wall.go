package geometry

// WallThicknessMm maps a representative part size to a discrete thickness
// bucket. Every estimation path shares this single lookup: the mesh path
// feeds it the bounding-sphere diameter, point and size paths feed it the
// mean bounding-box dimension.
func WallThicknessMm(sizeMm float64) float64 {
	switch {
	case sizeMm < 25:
		return 1.0
	case sizeMm < 50:
		return 1.5
	case sizeMm < 100:
		return 2.0
	case sizeMm < 200:
		return 2.5
	default:
		return 3.0
	}
}
