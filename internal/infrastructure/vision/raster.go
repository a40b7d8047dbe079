package vision

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

const (
	// BinaryThreshold всё, что не светлее порога, считается дефектом.
	BinaryThreshold = 39
	// KernelSize сторона прямоугольного структурного элемента.
	KernelSize = 3
)

type morphOp int

const (
	opOpen morphOp = iota
	opErode
	opDilate
)

type morphStep struct {
	op         morphOp
	iterations int
}

// cleanupCascade подобранная последовательность морфологии: склеивает
// разрывы внутри дефекта и гасит одиночный шум. Порядок менять нельзя.
var cleanupCascade = []morphStep{
	{opOpen, 1},
	{opErode, 2},
	{opDilate, 3},
	{opDilate, 1},
	{opErode, 2},
	{opDilate, 1},
}

// RasterSegmenter сегментатор на чистом Go, без OpenCV.
type RasterSegmenter struct{}

// NewRasterSegmenter создаёт сегментатор на чистом Go.
func NewRasterSegmenter() *RasterSegmenter {
	return &RasterSegmenter{}
}

// Binarize переводит снимок в серый, применяет обратный порог и морфологию.
func (s *RasterSegmenter) Binarize(img image.Image) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", entity.ErrInput)
	}

	mask := thresholdInv(luminance(img), BinaryThreshold)
	for _, step := range cleanupCascade {
		for i := 0; i < step.iterations; i++ {
			switch step.op {
			case opOpen:
				mask = dilate(erode(mask))
			case opErode:
				mask = erode(mask)
			case opDilate:
				mask = dilate(mask)
			}
		}
	}

	return mask, nil
}

// Contours ищет все внешние и внутренние границы на маске.
func (s *RasterSegmenter) Contours(mask *image.Gray) ([]entity.Region, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", entity.ErrInput)
	}
	return findContours(mask), nil
}

// luminance возвращает яркость пикселей в координатах от (0,0).
func luminance(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], g.Pix[y*g.Stride:y*g.Stride+b.Dx()])
		}
		return out
	}

	gray := imaging.Grayscale(img)
	for y := 0; y < b.Dy(); y++ {
		src := gray.Pix[y*gray.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return out
}

// thresholdInv: пиксель <= thresh становится 255, остальные 0.
func thresholdInv(gray *image.Gray, thresh uint8) *image.Gray {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x, v := range src {
			if v <= thresh {
				dst[x] = 255
			}
		}
	}
	return out
}

var _ port.Segmenter = (*RasterSegmenter)(nil)
