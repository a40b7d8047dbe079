package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

const (
	picturesFile = "pictures.parquet"
	defectsFile  = "defects.parquet"
)

type pictureRow struct {
	ID          int64  `parquet:"id"`
	URL         string `parquet:"url"`
	DefectCount int32  `parquet:"defect_count"`
	CreatedAt   int64  `parquet:"created_at_ms"`
}

type defectRow struct {
	ID            int64   `parquet:"id"`
	PictureID     int64   `parquet:"picture_id"`
	URL           string  `parquet:"url"`
	CategoryLabel string  `parquet:"category"`
	Confidence    float64 `parquet:"confidence"`
	Location      string  `parquet:"location"`
	CreatedAt     int64   `parquet:"created_at_ms"`
}

// ParquetArchive выгрузка истории проверок в два parquet-файла в каталоге dir.
type ParquetArchive struct {
	dir string
}

// NewParquetArchive создаёт архив в каталоге dir.
func NewParquetArchive(dir string) *ParquetArchive {
	return &ParquetArchive{dir: dir}
}

// Export перезаписывает файлы архива текущим содержимым хранилища.
func (a *ParquetArchive) Export(ctx context.Context, pictures []entity.Picture, defects []entity.StoredDefect) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create archive dir: %v", entity.ErrPersistence, err)
	}

	prow := make([]pictureRow, 0, len(pictures))
	for _, p := range pictures {
		prow = append(prow, pictureRow{
			ID:          p.ID,
			URL:         p.URL,
			DefectCount: int32(p.DefectCount),
			CreatedAt:   p.CreatedAt.UnixMilli(),
		})
	}
	drow := make([]defectRow, 0, len(defects))
	for _, d := range defects {
		drow = append(drow, defectRow{
			ID:            d.ID,
			PictureID:     d.PictureID,
			URL:           d.URL,
			CategoryLabel: d.CategoryLabel,
			Confidence:    d.Confidence,
			Location:      d.Location,
			CreatedAt:     d.CreatedAt.UnixMilli(),
		})
	}

	if err := parquet.WriteFile(filepath.Join(a.dir, picturesFile), prow); err != nil {
		return fmt.Errorf("%w: write pictures: %v", entity.ErrPersistence, err)
	}
	if err := parquet.WriteFile(filepath.Join(a.dir, defectsFile), drow); err != nil {
		return fmt.Errorf("%w: write defects: %v", entity.ErrPersistence, err)
	}
	return nil
}

// Read читает архив. Отсутствующий архив даёт пустые списки.
func (a *ParquetArchive) Read(ctx context.Context) ([]entity.Picture, []entity.StoredDefect, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	prow, err := readRows[pictureRow](filepath.Join(a.dir, picturesFile))
	if err != nil {
		return nil, nil, err
	}
	drow, err := readRows[defectRow](filepath.Join(a.dir, defectsFile))
	if err != nil {
		return nil, nil, err
	}

	pictures := make([]entity.Picture, 0, len(prow))
	for _, r := range prow {
		pictures = append(pictures, entity.Picture{
			ID:          r.ID,
			URL:         r.URL,
			DefectCount: int(r.DefectCount),
			CreatedAt:   time.UnixMilli(r.CreatedAt),
		})
	}
	defects := make([]entity.StoredDefect, 0, len(drow))
	for _, r := range drow {
		defects = append(defects, entity.StoredDefect{
			ID:            r.ID,
			PictureID:     r.PictureID,
			URL:           r.URL,
			CategoryLabel: r.CategoryLabel,
			Confidence:    r.Confidence,
			Location:      r.Location,
			CreatedAt:     time.UnixMilli(r.CreatedAt),
		})
	}

	return pictures, defects, nil
}

func readRows[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", entity.ErrPersistence, path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", entity.ErrPersistence, path, err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: open parquet %s: %v", entity.ErrPersistence, path, err)
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	out := make([]T, 0, pf.NumRows())
	batch := make([]T, 128)
	for {
		n, err := reader.Read(batch)
		out = append(out, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", entity.ErrPersistence, path, err)
		}
	}

	return out, nil
}

var _ port.RecordArchive = (*ParquetArchive)(nil)
