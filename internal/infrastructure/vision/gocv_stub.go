//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

var errNoGoCV = fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrModelLoad)

// GoCVSegmenter заглушка (без OpenCV).
type GoCVSegmenter struct{}

// NewGoCVSegmenter создаёт сегментатор-заглушку.
func NewGoCVSegmenter() *GoCVSegmenter {
	return &GoCVSegmenter{}
}

// DefaultSegmenter сегментатор сборки: без тега gocv это реализация на чистом Go.
func DefaultSegmenter() port.Segmenter {
	return NewRasterSegmenter()
}

// Binarize возвращает ошибку, если сборка без тега gocv.
func (s *GoCVSegmenter) Binarize(img image.Image) (*image.Gray, error) {
	_ = img
	return nil, errNoGoCV
}

// Contours возвращает ошибку, если сборка без тега gocv.
func (s *GoCVSegmenter) Contours(mask *image.Gray) ([]entity.Region, error) {
	_ = mask
	return nil, errNoGoCV
}

// GoCVClassifier заглушка (без OpenCV).
type GoCVClassifier struct{}

// NewGoCVClassifier возвращает ошибку, если сборка без тега gocv.
func NewGoCVClassifier(modelPath string) (*GoCVClassifier, error) {
	_ = modelPath
	return nil, errNoGoCV
}

// Classify возвращает ошибку, если сборка без тега gocv.
func (c *GoCVClassifier) Classify(ctx context.Context, crop image.Image) (entity.Classification, error) {
	_ = ctx
	_ = crop
	return entity.UnclassifiedResult(), errNoGoCV
}

// Close ничего не делает.
func (c *GoCVClassifier) Close() error {
	return nil
}

var (
	_ port.Segmenter        = (*GoCVSegmenter)(nil)
	_ port.RegionClassifier = (*GoCVClassifier)(nil)
)
