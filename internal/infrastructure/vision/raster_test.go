package vision

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"

	"film-inspector/internal/domain/entity"
)

func filmImage(w, h int, dark ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 200, G: 200, B: 200, A: 255}), image.Point{}, draw.Src)
	for _, r := range dark {
		draw.Draw(img, r, image.NewUniform(color.RGBA{R: 10, G: 10, B: 10, A: 255}), image.Point{}, draw.Src)
	}
	return img
}

func countOn(m *image.Gray) int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestThresholdInv_Boundary(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 1))
	g.Pix = []uint8{38, 39, 40}

	out := thresholdInv(g, BinaryThreshold)
	require.Equal(t, []uint8{255, 255, 0}, out.Pix)
}

func TestRasterSegmenter_BrightImageGivesEmptyMask(t *testing.T) {
	s := NewRasterSegmenter()

	mask, err := s.Binarize(filmImage(1000, 1000))
	require.NoError(t, err)
	require.Zero(t, countOn(mask))

	regions, err := s.Contours(mask)
	require.NoError(t, err)
	require.Empty(t, regions)
}

func TestRasterSegmenter_BlackImageIsOneFullFrameRegion(t *testing.T) {
	s := NewRasterSegmenter()
	img := image.NewGray(image.Rect(0, 0, 200, 100))

	mask, err := s.Binarize(img)
	require.NoError(t, err)
	require.Equal(t, 200*100, countOn(mask))

	regions, err := s.Contours(mask)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Equal(t, entity.BoundingBox{Width: 200, Height: 100}, regions[0].Box)
	require.Empty(t, entity.CoarsePolicy.Filter(regions, 200, 100))
}

func TestRasterSegmenter_CascadeGrowsBlobByOnePixel(t *testing.T) {
	s := NewRasterSegmenter()

	mask, err := s.Binarize(filmImage(400, 300, image.Rect(101, 101, 159, 139)))
	require.NoError(t, err)

	regions, err := s.Contours(mask)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Equal(t, entity.BoundingBox{X: 100, Y: 100, Width: 60, Height: 40}, regions[0].Box)
	require.InDelta(t, 2301, regions[0].Area, 1e-9)
}

func TestRasterSegmenter_RemovesSpeckNoise(t *testing.T) {
	s := NewRasterSegmenter()

	mask, err := s.Binarize(filmImage(100, 100, image.Rect(50, 50, 51, 51)))
	require.NoError(t, err)
	require.Zero(t, countOn(mask))
}

func TestRasterSegmenter_DoesNotMutateInput(t *testing.T) {
	s := NewRasterSegmenter()
	img := filmImage(100, 100, image.Rect(20, 20, 60, 60))
	before := append([]uint8(nil), img.Pix...)

	_, err := s.Binarize(img)
	require.NoError(t, err)
	require.Equal(t, before, img.Pix)
}

func TestRasterSegmenter_InputErrors(t *testing.T) {
	s := NewRasterSegmenter()

	_, err := s.Binarize(image.NewGray(image.Rect(0, 0, 0, 0)))
	require.ErrorIs(t, err, entity.ErrInput)

	_, err = s.Contours(nil)
	require.ErrorIs(t, err, entity.ErrInput)
}

func TestRasterSegmenter_OffsetBounds(t *testing.T) {
	s := NewRasterSegmenter()
	img := filmImage(300, 300, image.Rect(101, 101, 159, 139)).SubImage(image.Rect(50, 50, 300, 300))

	mask, err := s.Binarize(img)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 250, 250), mask.Bounds())

	regions, err := s.Contours(mask)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Equal(t, entity.BoundingBox{X: 50, Y: 50, Width: 60, Height: 40}, regions[0].Box)
}
