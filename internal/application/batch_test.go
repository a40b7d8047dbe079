package app

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"film-inspector/internal/domain/entity"
)

func loadFake(path string) (image.Image, error) {
	if filepath.Base(path) == "broken.png" {
		return nil, errors.New("cannot decode")
	}
	return filmImage(40, 40), nil
}

func TestBatchJob_Run(t *testing.T) {
	job := NewBatchJob(&stubClassifier{class: entity.ClassScratch, conf: 0.9}, loadFake, zerolog.Nop())

	var seen []BatchProgress
	res, err := job.Run(context.Background(), []string{"a.png", "broken.png", "b.png"}, func(p BatchProgress) {
		seen = append(seen, p)
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Processed)
	require.Equal(t, 1, res.Failed)
	require.False(t, res.Stopped)
	require.Equal(t, entity.Summary{Normal: 1, Scratch: 2, Unclassified: 1}, res.Summary)
	require.Len(t, seen, 3)
	require.Equal(t, 3, seen[2].Total)
	require.Equal(t, entity.Summary{Normal: 1, Scratch: 1, Unclassified: 1}, seen[1].Summary)
}

func TestBatchJob_ClassifierErrorCountsAsNormal(t *testing.T) {
	job := NewBatchJob(&stubClassifier{err: errors.New("bad tensor")}, loadFake, zerolog.Nop())

	res, err := job.Run(context.Background(), []string{"a.png", "b.png"}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, res.Processed)
	require.Equal(t, 2, res.Failed)
	require.Equal(t, entity.Summary{Normal: 2, Unclassified: 2}, res.Summary)
}

func TestBatchJob_Stop(t *testing.T) {
	var job *BatchJob
	classifier := &stubClassifier{class: entity.ClassCoatingGap}
	classifier.onCall = func() { job.Stop() }
	job = NewBatchJob(classifier, loadFake, zerolog.Nop())

	res, err := job.Run(context.Background(), []string{"a.png", "b.png", "c.png"}, nil)
	require.NoError(t, err)
	require.True(t, res.Stopped)
	require.Equal(t, 1, res.Processed)
	require.Equal(t, 1, classifier.Calls())
}

func TestBatchJob_PauseResume(t *testing.T) {
	var job *BatchJob
	classifier := &stubClassifier{}
	classifier.onCall = func() { job.Pause() }
	job = NewBatchJob(classifier, loadFake, zerolog.Nop())

	done := make(chan BatchResult)
	go func() {
		res, _ := job.Run(context.Background(), []string{"a.png", "b.png"}, nil)
		done <- res
	}()

	require.Eventually(t, job.Paused, time.Second, time.Millisecond)
	require.Equal(t, 1, classifier.Calls())

	classifier.mu.Lock()
	classifier.onCall = nil
	classifier.mu.Unlock()
	job.Resume()

	select {
	case res := <-done:
		require.Equal(t, 2, res.Processed)
		require.Equal(t, entity.Summary{Normal: 2}, res.Summary)
	case <-time.After(time.Second):
		t.Fatal("batch did not resume")
	}
}

func TestBatchJob_CancelWhilePaused(t *testing.T) {
	job := NewBatchJob(&stubClassifier{}, loadFake, zerolog.Nop())
	job.Pause()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := job.Run(ctx, []string{"a.png"}, nil)
	require.NoError(t, err)
	require.True(t, res.Stopped)
	require.Zero(t, res.Processed)
}

func TestBatchJob_WithoutModel(t *testing.T) {
	job := NewBatchJob(nil, loadFake, zerolog.Nop())

	_, err := job.Run(context.Background(), []string{"a.png"}, nil)
	require.ErrorIs(t, err, entity.ErrModelLoad)
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.BMP", "a.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	paths, err := ListImages(dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.BMP")}, paths)
}
