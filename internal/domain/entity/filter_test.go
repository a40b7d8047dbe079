package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func region(w, h int, area float64) Region {
	return Region{Box: BoundingBox{X: 5, Y: 5, Width: w, Height: h}, Area: area}
}

func TestCoarsePolicy_AreaBoundaries(t *testing.T) {
	cases := []struct {
		area float64
		want bool
	}{
		{799, false},
		{800, true},
		{150000, true},
		{150001, false},
	}

	for _, c := range cases {
		require.Equal(t, c.want, CoarsePolicy.Accept(region(400, 400, c.area), 2000, 2000), "area %v", c.area)
	}
}

func TestCoarsePolicy_AspectBoundaries(t *testing.T) {
	require.True(t, CoarsePolicy.Accept(region(300, 100, 5000), 2000, 2000))
	require.False(t, CoarsePolicy.Accept(region(301, 100, 5000), 2000, 2000))
	require.True(t, CoarsePolicy.Accept(region(100, 300, 5000), 2000, 2000))
	require.False(t, CoarsePolicy.Accept(region(100, 301, 5000), 2000, 2000))
}

func TestCoarsePolicy_HeightUsesIntegerDivision(t *testing.T) {
	// 1001/2 = 500
	require.True(t, CoarsePolicy.Accept(region(300, 500, 5000), 1000, 1001))
	require.False(t, CoarsePolicy.Accept(region(300, 501, 5000), 1000, 1001))
}

func TestStrictPolicy(t *testing.T) {
	const w, h = 1000, 1000

	require.True(t, StrictPolicy.Accept(region(60, 40, 2301), w, h))
	require.Equal(t, "side too short", StrictPolicy.Reject(region(29, 40, 1100), w, h))
	require.Equal(t, "area too small", StrictPolicy.Reject(region(40, 40, 999), w, h))
	require.Equal(t, "area too large", StrictPolicy.Reject(region(240, 240, 50001), w, h))
	require.Equal(t, "too wide", StrictPolicy.Reject(region(81, 40, 3000), w, h))
	require.Equal(t, "wider than image fraction", StrictPolicy.Reject(region(251, 200, 40000), w, h))
	require.True(t, StrictPolicy.Accept(region(250, 250, 50000), w, h))
}

func TestStrictPolicy_AspectSweep(t *testing.T) {
	const w, h = 1000, 1000

	require.True(t, StrictPolicy.Accept(region(80, 40, 3000), w, h))
	require.Equal(t, "too wide", StrictPolicy.Reject(region(81, 40, 3000), w, h))
	require.True(t, StrictPolicy.Accept(region(40, 80, 3000), w, h))
	require.Equal(t, "too narrow", StrictPolicy.Reject(region(40, 81, 3000), w, h))
}

func TestStrictPolicy_HeightFraction(t *testing.T) {
	// 1003/4 = 250, 1003/3 = 334
	require.True(t, StrictPolicy.Accept(region(200, 250, 40000), 1000, 1003))
	require.Equal(t, "taller than image fraction", StrictPolicy.Reject(region(200, 251, 40000), 1000, 1003))
}

func TestPolicy_RejectsEmptyBox(t *testing.T) {
	require.Equal(t, "empty box", CoarsePolicy.Reject(region(0, 40, 1000), 100, 100))
	require.Equal(t, "empty box", StrictPolicy.Reject(region(40, 0, 1000), 100, 100))
}

func TestFilter_KeepsOrderAndCoordinates(t *testing.T) {
	regions := []Region{
		{Box: BoundingBox{X: 1, Y: 2, Width: 60, Height: 40}, Area: 2301},
		{Box: BoundingBox{X: 3, Y: 4, Width: 10, Height: 10}, Area: 81},
		{Box: BoundingBox{X: 5, Y: 6, Width: 50, Height: 50}, Area: 2401},
	}

	boxes := CoarsePolicy.Filter(regions, 1000, 1000)
	require.Equal(t, []BoundingBox{regions[0].Box, regions[2].Box}, boxes)
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("strict")
	require.NoError(t, err)
	require.Equal(t, StrictPolicy, p)

	_, err = PolicyByName("loose")
	require.Error(t, err)
}
