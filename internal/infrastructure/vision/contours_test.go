package vision

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"

	"film-inspector/internal/domain/entity"
)

func maskWith(w, h int, rects ...image.Rectangle) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for _, r := range rects {
		draw.Draw(m, r, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	}
	return m
}

func TestFindContours_SingleBlobAnyPosition(t *testing.T) {
	cases := []entity.BoundingBox{
		{X: 100, Y: 100, Width: 60, Height: 40},
		{X: 0, Y: 0, Width: 60, Height: 40},
		{X: 140, Y: 160, Width: 60, Height: 40},
		{X: 0, Y: 160, Width: 60, Height: 40},
	}

	for _, box := range cases {
		t.Run(box.Location(), func(t *testing.T) {
			regions := findContours(maskWith(200, 200, box.Rect()))
			require.Len(t, regions, 1)
			require.Equal(t, box, regions[0].Box)
			require.InDelta(t, float64((box.Width-1)*(box.Height-1)), regions[0].Area, 1e-9)
		})
	}
}

func TestFindContours_Empty(t *testing.T) {
	require.Empty(t, findContours(maskWith(50, 50)))
}

func TestFindContours_IsolatedPixel(t *testing.T) {
	regions := findContours(maskWith(10, 10, image.Rect(4, 5, 5, 6)))
	require.Len(t, regions, 1)
	require.Equal(t, entity.BoundingBox{X: 4, Y: 5, Width: 1, Height: 1}, regions[0].Box)
	require.Zero(t, regions[0].Area)
}

func TestFindContours_RingHasOuterAndHoleBorder(t *testing.T) {
	m := maskWith(100, 100, image.Rect(10, 10, 60, 60))
	draw.Draw(m, image.Rect(20, 20, 50, 50), image.NewUniform(color.Gray{}), image.Point{}, draw.Src)

	regions := findContours(m)
	require.Len(t, regions, 2)
	require.Equal(t, entity.BoundingBox{X: 10, Y: 10, Width: 50, Height: 50}, regions[0].Box)
	require.Equal(t, entity.BoundingBox{X: 19, Y: 19, Width: 32, Height: 32}, regions[1].Box)
	require.Less(t, regions[1].Area, regions[0].Area)
}

func TestFindContours_DiscoveryOrder(t *testing.T) {
	m := maskWith(200, 200,
		image.Rect(120, 10, 150, 30),
		image.Rect(10, 50, 40, 70),
		image.Rect(10, 5, 30, 20),
	)

	regions := findContours(m)
	require.Len(t, regions, 3)
	require.Equal(t, 10, regions[0].Box.X)
	require.Equal(t, 5, regions[0].Box.Y)
	require.Equal(t, 120, regions[1].Box.X)
	require.Equal(t, 50, regions[2].Box.Y)
}
