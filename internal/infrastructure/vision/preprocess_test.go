package vision

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"film-inspector/internal/domain/entity"
)

func TestPreprocess_ShapeAndNormalisation(t *testing.T) {
	crop := image.NewRGBA(image.Rect(0, 0, 60, 40))
	draw.Draw(crop, crop.Bounds(), image.NewUniform(color.RGBA{R: 255, G: 0, B: 255, A: 255}), image.Point{}, draw.Src)

	tensor, err := Preprocess(crop)
	require.NoError(t, err)
	require.Len(t, tensor, 3*InputSize*InputSize)

	plane := InputSize * InputSize
	require.InDelta(t, (1-0.485)/0.229, tensor[0], 1e-2)
	require.InDelta(t, (0-0.456)/0.224, tensor[plane], 1e-2)
	require.InDelta(t, (1-0.406)/0.225, tensor[2*plane+plane-1], 1e-2)
}

func TestPreprocess_EmptyCrop(t *testing.T) {
	_, err := Preprocess(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.ErrorIs(t, err, entity.ErrRegionDecode)
}

func TestCrop(t *testing.T) {
	img := filmImage(200, 200, image.Rect(100, 100, 160, 140))

	crop, err := Crop(img, entity.BoundingBox{X: 100, Y: 100, Width: 60, Height: 40})
	require.NoError(t, err)
	require.Equal(t, 60, crop.Bounds().Dx())
	require.Equal(t, 40, crop.Bounds().Dy())

	clipped, err := Crop(img, entity.BoundingBox{X: 180, Y: 180, Width: 60, Height: 40})
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 20, 20), clipped.Bounds())

	_, err = Crop(img, entity.BoundingBox{X: 300, Y: 300, Width: 10, Height: 10})
	require.ErrorIs(t, err, entity.ErrRegionDecode)
}

func TestFromLogits(t *testing.T) {
	c, err := FromLogits([]float32{0, 0, 0, 0, 0, 0, 10, 0})
	require.NoError(t, err)
	require.Equal(t, 6, c.ClassIndex)
	require.InDelta(t, math.Exp(10)/(math.Exp(10)+7), c.Confidence, 1e-6)
	require.False(t, c.Unclassified)
	require.Equal(t, entity.CategoryScratch, c.Category())

	tie, err := FromLogits(make([]float32, entity.NumClasses))
	require.NoError(t, err)
	require.Equal(t, 0, tie.ClassIndex)
	require.InDelta(t, 0.125, tie.Confidence, 1e-9)

	_, err = FromLogits(nil)
	require.Error(t, err)
}
