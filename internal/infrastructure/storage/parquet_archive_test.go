package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"film-inspector/internal/domain/entity"
)

func TestParquetArchive_RoundTrip(t *testing.T) {
	archive := NewParquetArchive(t.TempDir())
	ctx := context.Background()
	created := time.UnixMilli(1_700_000_000_000)

	pictures := []entity.Picture{{ID: 1, URL: "film.bmp", DefectCount: 2, CreatedAt: created}}
	defects := []entity.StoredDefect{
		{ID: 2, PictureID: 1, URL: "film.bmp", CategoryLabel: "scratch(class7NG)", Confidence: 0.75, Location: "(1,2,3,4)", CreatedAt: created},
		{ID: 3, PictureID: 1, URL: "film.bmp", CategoryLabel: "coating_gap(class5NG)", Confidence: 0.5, Location: "(5,6,7,8)", CreatedAt: created},
	}
	require.NoError(t, archive.Export(ctx, pictures, defects))

	gotPictures, gotDefects, err := archive.Read(ctx)
	require.NoError(t, err)
	require.Len(t, gotPictures, 1)
	require.Equal(t, pictures[0].URL, gotPictures[0].URL)
	require.Equal(t, 2, gotPictures[0].DefectCount)
	require.True(t, created.Equal(gotPictures[0].CreatedAt))
	require.Len(t, gotDefects, 2)
	require.Equal(t, "(5,6,7,8)", gotDefects[1].Location)
	require.InDelta(t, 0.5, gotDefects[1].Confidence, 1e-9)
}

func TestParquetArchive_ReadMissing(t *testing.T) {
	archive := NewParquetArchive(t.TempDir())

	pictures, defects, err := archive.Read(context.Background())
	require.NoError(t, err)
	require.Empty(t, pictures)
	require.Empty(t, defects)
}
