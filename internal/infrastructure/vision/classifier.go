package vision

import (
	"fmt"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

// Имена движков классификатора.
const (
	BackendONNX = "onnx"
	BackendGoCV = "gocv"
)

// NewClassifier загружает модель выбранным движком.
func NewClassifier(backend, modelPath, libraryPath string) (port.RegionClassifier, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("%w: model path is empty", entity.ErrModelLoad)
	}

	switch backend {
	case BackendONNX, "":
		c, err := NewONNXClassifier(modelPath, libraryPath)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendGoCV:
		c, err := NewGoCVClassifier(modelPath)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", entity.ErrModelLoad, backend)
	}
}
