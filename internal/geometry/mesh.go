package geometry

// Mesh is a triangulated surface. Triangles are consumed transiently by the
// volume integrator; consistent outward winding is not required because the
// signed sum's absolute value is taken.
type Mesh struct {
	Triangles []Triangle
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// Points returns every vertex of the mesh as a flat point set.
func (m *Mesh) Points() []Point3 {
	points := make([]Point3, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		points = append(points, t.A, t.B, t.C)
	}
	return points
}

// VolumeMm3 computes the enclosed volume of a closed surface by the
// divergence theorem: the sum of A·(B×C)/6 over all triangles equals the
// signed enclosed volume, so the absolute value of the sum is returned.
//
// The accumulation is plain double precision, so reordering triangles may
// change the last bits of the result; callers compare with a relative
// tolerance. Open or degenerate surfaces yield a near-zero value which the
// pipeline clamps to a minimum floor.
func (m *Mesh) VolumeMm3() (float64, error) {
	if m.IsEmpty() {
		return 0, ErrMalformedMesh
	}

	var sum float64
	for _, t := range m.Triangles {
		sum += tripleProduct(t.A, t.B, t.C) / 6.0
	}
	if sum < 0 {
		sum = -sum
	}
	return sum, nil
}

// BoundingSphereDiameterMm returns the diameter of the sphere bounding the
// mesh's axis-aligned box, the representative size for wall thickness on the
// mesh path.
func (m *Mesh) BoundingSphereDiameterMm() float64 {
	return BoundingBoxOf(m.Points()).DiagonalMm()
}

// tripleProduct computes a · (b × c).
func tripleProduct(a, b, c Point3) float64 {
	return a.X*(b.Y*c.Z-b.Z*c.Y) +
		a.Y*(b.Z*c.X-b.X*c.Z) +
		a.Z*(b.X*c.Y-b.Y*c.X)
}
