package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWallThicknessBuckets(t *testing.T) {
	cases := []struct {
		sizeMm float64
		want   float64
	}{
		{0, 1.0},
		{24, 1.0},
		{25, 1.5},
		{49, 1.5},
		{50, 2.0},
		{99, 2.0},
		{100, 2.5},
		{199, 2.5},
		{200, 3.0},
		{5000, 3.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WallThicknessMm(tc.sizeMm), "size %v", tc.sizeMm)
	}
}
