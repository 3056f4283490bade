package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterOutliers_IdentityBelowThreshold(t *testing.T) {
	points := []Point3{
		{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {1000, 1000, 1000},
	}
	got := FilterOutliers(points, 2.0)
	assert.Equal(t, points, got, "fewer than 10 points must pass through unchanged")
}

func TestFilterOutliers_RemovesFarPoint(t *testing.T) {
	points := make([]Point3, 0, 12)
	for i := 0; i < 11; i++ {
		points = append(points, Point3{X: float64(i), Y: 0, Z: 0})
	}
	points = append(points, Point3{X: 1200, Y: 0, Z: 0})

	got := FilterOutliers(points, 2.0)
	require.Len(t, got, 11)
	for _, p := range got {
		assert.Less(t, p.X, 100.0)
	}
}

func TestFilterOutliers_KeepsTightCluster(t *testing.T) {
	points := make([]Point3, 0, 20)
	for i := 0; i < 20; i++ {
		points = append(points, Point3{X: float64(i % 5), Y: float64(i % 3), Z: float64(i % 7)})
	}

	got := FilterOutliers(points, 2.0)
	assert.Len(t, got, 20, "no point in a tight cluster is 2 sigma away")
}

func TestFilterOutliers_DegenerateVarianceKeepsExactMatches(t *testing.T) {
	// All points identical: stddev is zero on every axis, and every point
	// sits exactly on the mean, so all survive.
	points := make([]Point3, 15)
	for i := range points {
		points[i] = Point3{X: 5, Y: 5, Z: 5}
	}
	got := FilterOutliers(points, 2.0)
	assert.Len(t, got, 15)
}
