// Package geometry estimates physical properties of a 3-D part from an
// uploaded geometry file. It is a best-effort estimator, not a geometry
// kernel: meshes are integrated exactly, semi-structured text formats are
// scanned heuristically, and every failure degrades to a lower-confidence
// fallback instead of surfacing an error.
package geometry

import "math"

// Point3 is a point in 3-D space, in millimeters.
type Point3 struct {
	X float64
	Y float64
	Z float64
}

// Triangle is one face of a triangulated surface.
type Triangle struct {
	A Point3
	B Point3
	C Point3
}

// BoundingBox is an axis-aligned extent in millimeters. Each dimension is
// floored at 1mm so downstream cost math never sees a zero-size part.
type BoundingBox struct {
	WidthMm  float64
	DepthMm  float64
	HeightMm float64
}

const minDimensionMm = 1.0

// DefaultBox is returned when no usable points exist. Never fail silently
// into a zero-size part.
var DefaultBox = BoundingBox{WidthMm: 100, DepthMm: 80, HeightMm: 60}

// BoundingBoxOf reduces a point set to its per-axis extent. Non-finite
// coordinates are skipped; if nothing usable remains it returns DefaultBox.
func BoundingBoxOf(points []Point3) BoundingBox {
	minX, minY, minZ := math.Inf(1), math.Inf(1), math.Inf(1)
	maxX, maxY, maxZ := math.Inf(-1), math.Inf(-1), math.Inf(-1)

	usable := 0
	for _, p := range points {
		if !finitePoint(p) {
			continue
		}
		usable++
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		minZ = math.Min(minZ, p.Z)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
		maxZ = math.Max(maxZ, p.Z)
	}

	if usable == 0 {
		return DefaultBox
	}

	return BoundingBox{
		WidthMm:  math.Max(maxX-minX, minDimensionMm),
		DepthMm:  math.Max(maxY-minY, minDimensionMm),
		HeightMm: math.Max(maxZ-minZ, minDimensionMm),
	}
}

// VolumeMm3 returns the volume of the box in cubic millimeters.
func (b BoundingBox) VolumeMm3() float64 {
	return b.WidthMm * b.DepthMm * b.HeightMm
}

// MeanDimensionMm returns the mean of the three extents, used as the
// representative size for the wall-thickness lookup on point-derived paths.
func (b BoundingBox) MeanDimensionMm() float64 {
	return (b.WidthMm + b.DepthMm + b.HeightMm) / 3.0
}

// DiagonalMm returns the length of the box diagonal, which equals the
// bounding-sphere diameter of the box.
func (b BoundingBox) DiagonalMm() float64 {
	return math.Sqrt(b.WidthMm*b.WidthMm + b.DepthMm*b.DepthMm + b.HeightMm*b.HeightMm)
}

func finitePoint(p Point3) bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
