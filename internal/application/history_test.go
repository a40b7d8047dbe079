package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/infrastructure/storage"
)

func scratchResult() *entity.InspectionResult {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &entity.InspectionResult{
		ImageID: "film.bmp",
		Summary: entity.Summary{Normal: 1, Scratch: 1, CoatingGap: 1},
		Records: []entity.DefectRecord{
			{SourceImageID: "film.bmp", Category: entity.CategoryScratch, Confidence: 0.9, Box: entity.BoundingBox{X: 100, Y: 100, Width: 60, Height: 40}, Timestamp: at},
			{SourceImageID: "film.bmp", Category: entity.CategoryCoatingGap, Confidence: 0.7, Box: entity.BoundingBox{X: 10, Y: 20, Width: 30, Height: 40}, Timestamp: at},
		},
	}
}

func TestHistoryService_SaveAndQuery(t *testing.T) {
	repo := storage.NewMemoryInspectionRepository()
	svc := NewHistoryService(repo, nil, zerolog.Nop())
	ctx := context.Background()

	id, err := svc.Save(ctx, "film.bmp", scratchResult())
	require.NoError(t, err)

	pictures, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, pictures, 1)
	require.Equal(t, 2, pictures[0].DefectCount)

	defects, err := svc.Defects(ctx, id)
	require.NoError(t, err)
	require.Len(t, defects, 2)
	require.Equal(t, "scratch(class7NG)", defects[0].CategoryLabel)
	require.Equal(t, "(100,100,60,40)", defects[0].Location)

	_, err = svc.Defects(ctx, id+100)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

type failingRepo struct {
	*storage.MemoryInspectionRepository
}

func (failingRepo) SaveDefects(context.Context, []entity.StoredDefect) error {
	return errors.New("disk full")
}

func TestHistoryService_PersistenceError(t *testing.T) {
	svc := NewHistoryService(failingRepo{storage.NewMemoryInspectionRepository()}, nil, zerolog.Nop())
	result := scratchResult()

	_, err := svc.Save(context.Background(), "film.bmp", result)
	require.ErrorIs(t, err, entity.ErrPersistence)
	require.Len(t, result.Records, 2)
}

func TestHistoryService_Export(t *testing.T) {
	repo := storage.NewMemoryInspectionRepository()
	archive := storage.NewParquetArchive(t.TempDir())
	svc := NewHistoryService(repo, archive, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Save(ctx, "film.bmp", scratchResult())
	require.NoError(t, err)
	require.NoError(t, svc.Export(ctx))

	pictures, defects, err := archive.Read(ctx)
	require.NoError(t, err)
	require.Len(t, pictures, 1)
	require.Len(t, defects, 2)

	require.ErrorIs(t, NewHistoryService(repo, nil, zerolog.Nop()).Export(ctx), entity.ErrPersistence)
}

func TestHistoryService_RestoreKeepsIDs(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := NewHistoryService(storage.NewMemoryInspectionRepository(), storage.NewParquetArchive(dir), zerolog.Nop())
	firstID, err := first.Save(ctx, "a.bmp", scratchResult())
	require.NoError(t, err)
	require.NoError(t, first.Export(ctx))

	second := NewHistoryService(storage.NewMemoryInspectionRepository(), storage.NewParquetArchive(dir), zerolog.Nop())
	require.NoError(t, second.Restore(ctx))
	secondID, err := second.Save(ctx, "b.bmp", scratchResult())
	require.NoError(t, err)
	require.Greater(t, secondID, firstID)

	defects, err := second.Defects(ctx, firstID)
	require.NoError(t, err)
	require.Len(t, defects, 2)

	pictures, err := second.History(ctx)
	require.NoError(t, err)
	require.Len(t, pictures, 2)
}
