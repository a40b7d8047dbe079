package port

import (
	"context"
	"image"

	"film-inspector/internal/domain/entity"
)

// InspectionRepository хранилище проверенных изображений и дефектов
type InspectionRepository interface {
	// SavePicture сохраняет изображение и возвращает присвоенный ID
	SavePicture(ctx context.Context, picture entity.Picture) (int64, error)

	// SaveDefects сохраняет дефекты изображения
	SaveDefects(ctx context.Context, defects []entity.StoredDefect) error

	// Picture возвращает изображение или entity.ErrNotFound
	Picture(ctx context.Context, id int64) (entity.Picture, error)

	// Pictures возвращает все изображения; пустой список не ошибка
	Pictures(ctx context.Context) ([]entity.Picture, error)

	// Defects возвращает дефекты изображения; пустой список не ошибка
	Defects(ctx context.Context, pictureID int64) ([]entity.StoredDefect, error)

	// Restore загружает ранее сохранённые записи с их ID
	Restore(ctx context.Context, pictures []entity.Picture, defects []entity.StoredDefect) error
}

// RecordArchive внешний архив записей
type RecordArchive interface {
	Export(ctx context.Context, pictures []entity.Picture, defects []entity.StoredDefect) error
	Read(ctx context.Context) ([]entity.Picture, []entity.StoredDefect, error)
}

// ArtifactWriter сохраняет промежуточные изображения для диагностики
type ArtifactWriter interface {
	// Write сохраняет изображение под именем name и возвращает путь
	Write(name string, img image.Image) (string, error)
}
