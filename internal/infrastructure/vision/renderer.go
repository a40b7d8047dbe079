package vision

import (
	"image"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

// Renderer реализация port.Renderer на imaging и x/image/font.
type Renderer struct{}

// NewRenderer создаёт Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Crop вырезает область снимка.
func (r *Renderer) Crop(img image.Image, box entity.BoundingBox) (image.Image, error) {
	return Crop(img, box)
}

// Highlight рисует дефекты на копии снимка.
func (r *Renderer) Highlight(src image.Image, records []entity.DefectRecord, locations bool) image.Image {
	mode := AnnotateCategories
	if locations {
		mode = AnnotateLocations
	}
	return Annotate(src, records, mode)
}

var _ port.Renderer = (*Renderer)(nil)
