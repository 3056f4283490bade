package geometry

import "math"

// minFilterPoints is the sample size below which per-axis statistics are too
// unreliable to filter on.
const minFilterPoints = 10

// FilterOutliers retains only points within sigma standard deviations of the
// mean on all three axes simultaneously. Below minFilterPoints the input is
// returned unchanged. Filtering can empty the set under degenerate variance;
// callers fall back to the unfiltered set in that case.
func FilterOutliers(points []Point3, sigma float64) []Point3 {
	if len(points) < minFilterPoints {
		return points
	}

	meanX, stdX := meanStddev(points, func(p Point3) float64 { return p.X })
	meanY, stdY := meanStddev(points, func(p Point3) float64 { return p.Y })
	meanZ, stdZ := meanStddev(points, func(p Point3) float64 { return p.Z })

	kept := make([]Point3, 0, len(points))
	for _, p := range points {
		if math.Abs(p.X-meanX) <= sigma*stdX &&
			math.Abs(p.Y-meanY) <= sigma*stdY &&
			math.Abs(p.Z-meanZ) <= sigma*stdZ {
			kept = append(kept, p)
		}
	}
	return kept
}

func meanStddev(points []Point3, axis func(Point3) float64) (mean, stddev float64) {
	n := float64(len(points))
	for _, p := range points {
		mean += axis(p)
	}
	mean /= n

	var variance float64
	for _, p := range points {
		d := axis(p) - mean
		variance += d * d
	}
	variance /= n

	return mean, math.Sqrt(variance)
}
