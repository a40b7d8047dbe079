package port

import (
	"context"
	"image"

	"film-inspector/internal/domain/entity"
)

// Segmenter строит бинарную маску и ищет на ней контуры
type Segmenter interface {
	// Binarize переводит снимок в маску: тёмные дефекты белые, фон чёрный
	Binarize(img image.Image) (*image.Gray, error)

	// Contours возвращает все контуры маски в порядке обнаружения
	Contours(mask *image.Gray) ([]entity.Region, error)
}

// RegionClassifier классифицирует вырезанную область
type RegionClassifier interface {
	// Classify возвращает индекс класса и уверенность
	Classify(ctx context.Context, crop image.Image) (entity.Classification, error)

	// Close освобождает ресурсы модели
	Close() error
}

// Renderer вырезает области и рисует результаты на копии снимка
type Renderer interface {
	// Crop возвращает область снимка; рамка обрезается по краям
	Crop(img image.Image, box entity.BoundingBox) (image.Image, error)

	// Highlight рисует дефекты; locations - все дефекты одним цветом
	Highlight(src image.Image, records []entity.DefectRecord, locations bool) image.Image
}
