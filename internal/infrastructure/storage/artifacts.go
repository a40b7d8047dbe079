package storage

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"film-inspector/internal/domain/port"
)

// DirWriter сохраняет диагностические изображения в каталог.
// Формат определяется расширением имени (png, jpg, bmp, tif).
type DirWriter struct {
	dir string
}

// NewDirWriter создаёт writer для каталога dir.
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{dir: dir}
}

// Write сохраняет изображение и возвращает путь к файлу.
func (w *DirWriter) Write(name string, img image.Image) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, filepath.Base(name))
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

var _ port.ArtifactWriter = (*DirWriter)(nil)
