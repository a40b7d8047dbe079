package app

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

// ImageLoader читает изображение с диска.
type ImageLoader func(path string) (image.Image, error)

// BatchProgress состояние пакетной классификации после очередного файла.
type BatchProgress struct {
	Done    int
	Total   int
	Path    string
	Summary entity.Summary
}

// BatchResult итог пакетной классификации.
type BatchResult struct {
	Summary   entity.Summary `yaml:"summary"`
	Processed int            `yaml:"processed"`
	Failed    int            `yaml:"failed"` // учтены как норма, см. Summary.Unclassified
	Stopped   bool           `yaml:"stopped"`
}

// BatchJob классифицирует уже вырезанные области по одному файлу.
// Остановка и пауза проверяются между файлами.
type BatchJob struct {
	classifier port.RegionClassifier
	load       ImageLoader
	log        zerolog.Logger

	mu      sync.Mutex
	paused  bool
	stopped bool
	resume  chan struct{}
}

// NewBatchJob создаёт задание пакетной классификации.
func NewBatchJob(classifier port.RegionClassifier, load ImageLoader, logger zerolog.Logger) *BatchJob {
	return &BatchJob{
		classifier: classifier,
		load:       load,
		log:        logger.With().Str("component", "batch").Logger(),
	}
}

// Run обрабатывает файлы по порядку. Файл, который не удалось прочитать
// или классифицировать, считается нормой с нулевой уверенностью.
func (j *BatchJob) Run(ctx context.Context, paths []string, progress func(BatchProgress)) (BatchResult, error) {
	var res BatchResult
	if j.classifier == nil {
		return res, entity.ErrModelLoad
	}

	for i, path := range paths {
		if err := j.waitIfPaused(ctx); err != nil {
			res.Stopped = true
			return res, nil
		}
		if j.isStopped() {
			res.Stopped = true
			break
		}

		if err := j.classifyFile(ctx, path, &res.Summary); err != nil {
			if ctx.Err() != nil {
				res.Stopped = true
				break
			}
			res.Failed++
			res.Summary.Add(entity.UnclassifiedResult())
			j.log.Warn().Err(err).Str("file", path).Msg("file left unclassified")
		}
		res.Processed++

		if progress != nil {
			progress(BatchProgress{Done: i + 1, Total: len(paths), Path: path, Summary: res.Summary})
		}
	}

	j.log.Info().
		Int("processed", res.Processed).
		Int("failed", res.Failed).
		Bool("stopped", res.Stopped).
		Msg("batch finished")

	return res, nil
}

func (j *BatchJob) classifyFile(ctx context.Context, path string, summary *entity.Summary) error {
	img, err := j.load(path)
	if err != nil {
		return err
	}
	cls, err := j.classifier.Classify(ctx, img)
	if err != nil {
		return err
	}
	summary.Add(cls)
	return nil
}

// Stop просит задание завершиться после текущего файла.
func (j *BatchJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.stopped = true
	if j.paused {
		j.paused = false
		close(j.resume)
	}
}

// Pause приостанавливает задание перед следующим файлом.
func (j *BatchJob) Pause() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.paused && !j.stopped {
		j.paused = true
		j.resume = make(chan struct{})
	}
}

// Resume продолжает приостановленное задание.
func (j *BatchJob) Resume() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.paused {
		j.paused = false
		close(j.resume)
	}
}

// Paused сообщает, стоит ли задание на паузе.
func (j *BatchJob) Paused() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.paused
}

func (j *BatchJob) isStopped() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stopped
}

func (j *BatchJob) waitIfPaused(ctx context.Context) error {
	j.mu.Lock()
	for j.paused {
		resume := j.resume
		j.mu.Unlock()
		select {
		case <-resume:
		case <-ctx.Done():
			return ctx.Err()
		}
		j.mu.Lock()
	}
	j.mu.Unlock()
	return nil
}

var imageExtensions = map[string]bool{
	".bmp": true, ".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
}

// ListImages возвращает изображения каталога, отсортированные по имени.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
