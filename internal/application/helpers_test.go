package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"film-inspector/internal/domain/entity"
)

// filmImage светлый снимок плёнки с тёмными пятнами.
func filmImage(w, h int, dark ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 200, G: 200, B: 200, A: 255}), image.Point{}, draw.Src)
	for _, r := range dark {
		draw.Draw(img, r, image.NewUniform(color.RGBA{R: 10, G: 10, B: 10, A: 255}), image.Point{}, draw.Src)
	}
	return img
}

type stubClassifier struct {
	mu     sync.Mutex
	class  int
	conf   float64
	err    error
	calls  int
	onCall func()
}

func (c *stubClassifier) Classify(ctx context.Context, crop image.Image) (entity.Classification, error) {
	c.mu.Lock()
	c.calls++
	onCall := c.onCall
	c.mu.Unlock()

	if onCall != nil {
		onCall()
	}
	if c.err != nil {
		return entity.UnclassifiedResult(), c.err
	}
	return entity.Classification{ClassIndex: c.class, Confidence: c.conf}, nil
}

func (c *stubClassifier) Close() error { return nil }

func (c *stubClassifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

var errBrokenCrop = errors.New("broken crop")
