package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

// Options настройки сервиса проверки.
type Options struct {
	Workers   int                 // 0 - по числу CPU
	Artifacts port.ArtifactWriter // nil - без диагностических файлов
	Logger    zerolog.Logger
}

// InspectionService конвейер: маска, контуры, фильтр, классификация, сводка.
type InspectionService struct {
	segmenter  port.Segmenter
	classifier port.RegionClassifier
	renderer   port.Renderer
	artifacts  port.ArtifactWriter
	workers    int
	log        zerolog.Logger
	now        func() time.Time
}

// Detection результат поиска областей без классификации.
type Detection struct {
	Localization entity.Localization
	Mask         *image.Gray
}

// NewInspectionService создаёт сервис. classifier может быть nil:
// тогда доступен только поиск областей.
func NewInspectionService(segmenter port.Segmenter, classifier port.RegionClassifier, renderer port.Renderer, opts Options) *InspectionService {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &InspectionService{
		segmenter:  segmenter,
		classifier: classifier,
		renderer:   renderer,
		artifacts:  opts.Artifacts,
		workers:    workers,
		log:        opts.Logger.With().Str("component", "inspection").Logger(),
		now:        time.Now,
	}
}

// ClassifierReady сообщает, загружена ли модель.
func (s *InspectionService) ClassifierReady() bool {
	return s.classifier != nil
}

// Localize ищет области-кандидаты по правилам первого прохода.
func (s *InspectionService) Localize(ctx context.Context, img image.Image) (*Detection, error) {
	return s.locate(ctx, img, entity.CoarsePolicy)
}

// Refine повторно ищет дефекты по строгим правилам. Если area не пустая,
// поиск идёт внутри неё: рамки и контуры возвращаются в координатах всего снимка,
// а маска и размеры в Localization относятся к вырезанной области.
func (s *InspectionService) Refine(ctx context.Context, img image.Image, area entity.BoundingBox) (*Detection, error) {
	if area.Empty() {
		return s.locate(ctx, img, entity.StrictPolicy)
	}

	crop, err := s.renderer.Crop(img, area)
	if err != nil {
		return nil, err
	}
	det, err := s.locate(ctx, crop, entity.StrictPolicy)
	if err != nil {
		return nil, err
	}

	// область обрезается по краям снимка, смещение берём от обрезанной
	b := img.Bounds()
	offset := area.Rect().Add(b.Min).Intersect(b).Min.Sub(b.Min).Sub(crop.Bounds().Min)
	for i := range det.Localization.Boxes {
		det.Localization.Boxes[i].X += offset.X
		det.Localization.Boxes[i].Y += offset.Y
	}
	for i := range det.Localization.Regions {
		det.Localization.Regions[i].Box.X += offset.X
		det.Localization.Regions[i].Box.Y += offset.Y
	}
	return det, nil
}

func (s *InspectionService) locate(ctx context.Context, img image.Image, policy entity.FilterPolicy) (*Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", entity.ErrInput)
	}

	mask, err := s.segmenter.Binarize(img)
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}
	regions, err := s.segmenter.Contours(mask)
	if err != nil {
		return nil, fmt.Errorf("contours: %w", err)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	boxes := policy.Filter(regions, w, h)

	s.log.Debug().
		Str("policy", policy.Name).
		Int("regions", len(regions)).
		Int("candidates", len(boxes)).
		Msg("regions located")

	return &Detection{
		Localization: entity.Localization{
			ImageWidth:  w,
			ImageHeight: h,
			Regions:     regions,
			Boxes:       boxes,
			Policy:      policy.Name,
		},
		Mask: mask,
	}, nil
}

// Inspect прогоняет снимок через весь конвейер.
// Ошибка отдельной области не прерывает проверку: область считается нормой.
// При отмене ctx возвращается частичный результат с Interrupted.
func (s *InspectionService) Inspect(ctx context.Context, imageID string, img image.Image) (*entity.InspectionResult, error) {
	if s.classifier == nil {
		return nil, fmt.Errorf("%w: classification is disabled", entity.ErrModelLoad)
	}

	start := s.now()
	det, err := s.Localize(ctx, img)
	if err != nil {
		return nil, err
	}

	candidates := make([]entity.Candidate, len(det.Localization.Boxes))
	for i, box := range det.Localization.Boxes {
		candidates[i] = entity.Candidate{Index: i, Box: box}
	}

	classes, done := s.classifyAll(ctx, img, candidates)

	interrupted := false
	keptCandidates := make([]entity.Candidate, 0, len(candidates))
	keptClasses := make([]entity.Classification, 0, len(candidates))
	for i := range candidates {
		if !done[i] {
			interrupted = true
			continue
		}
		keptCandidates = append(keptCandidates, candidates[i])
		keptClasses = append(keptClasses, classes[i])
	}

	summary, records := Aggregate(imageID, keptCandidates, keptClasses, start)

	result := &entity.InspectionResult{
		ImageID:         imageID,
		ImageWidth:      det.Localization.ImageWidth,
		ImageHeight:     det.Localization.ImageHeight,
		Candidates:      keptCandidates,
		Classifications: keptClasses,
		Summary:         summary,
		Records:         records,
		Interrupted:     interrupted,
		Duration:        s.now().Sub(start),
	}

	logEvent := s.log.Info()
	if interrupted {
		logEvent = s.log.Warn().Bool("interrupted", true)
	}
	logEvent.
		Str("image", imageID).
		Int("candidates", len(candidates)).
		Int("normal", summary.Normal).
		Int("scratch", summary.Scratch).
		Int("coating_gap", summary.CoatingGap).
		Int("unclassified", summary.Unclassified).
		Int64("duration_ms", result.Duration.Milliseconds()).
		Msg("inspection finished")

	if s.artifacts != nil {
		s.writeArtifacts(imageID, img, det.Mask, result)
	}

	return result, nil
}

// classifyAll классифицирует кандидатов пулом воркеров. Результаты
// раскладываются по индексу кандидата, done отмечает обработанные.
func (s *InspectionService) classifyAll(ctx context.Context, img image.Image, candidates []entity.Candidate) ([]entity.Classification, []bool) {
	classes := make([]entity.Classification, len(candidates))
	done := make([]bool, len(candidates))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.workers)

	for i, c := range candidates {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(idx int, c entity.Candidate) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			if ctx.Err() != nil {
				return
			}
			cls, ok := s.classifyRegion(ctx, img, c)
			if !ok {
				return
			}
			classes[idx] = cls
			done[idx] = true
		}(i, c)
	}

	wg.Wait()
	return classes, done
}

// classifyRegion возвращает false, только если классификацию прервала отмена.
func (s *InspectionService) classifyRegion(ctx context.Context, img image.Image, c entity.Candidate) (entity.Classification, bool) {
	crop, err := s.renderer.Crop(img, c.Box)
	if err == nil {
		var cls entity.Classification
		cls, err = s.classifier.Classify(ctx, crop)
		if err == nil {
			return cls, true
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return entity.Classification{}, false
	}

	s.log.Warn().
		Err(err).
		Int("region", c.Index).
		Str("box", c.Box.Location()).
		Msg("region left unclassified")
	return entity.UnclassifiedResult(), true
}

// Highlight рисует результат проверки на копии снимка.
func (s *InspectionService) Highlight(src image.Image, result *entity.InspectionResult, locations bool) image.Image {
	return s.renderer.Highlight(src, result.Records, locations)
}

// writeArtifacts сохраняет маску, вырезанные области и обе разметки.
// Ошибки записи только логируются: результат проверки от них не зависит.
func (s *InspectionService) writeArtifacts(imageID string, img image.Image, mask *image.Gray, result *entity.InspectionResult) {
	base := strings.TrimSuffix(filepath.Base(imageID), filepath.Ext(imageID))

	write := func(name string, out image.Image) {
		path, err := s.artifacts.Write(name, out)
		if err != nil {
			s.log.Warn().Err(err).Str("artifact", name).Msg("artifact not written")
			return
		}
		s.log.Debug().Str("path", path).Msg("artifact written")
	}

	write(base+"_binary.png", mask)
	for i, c := range result.Candidates {
		crop, err := s.renderer.Crop(img, c.Box)
		if err != nil {
			continue
		}
		write(fmt.Sprintf("region_%d.png", i+1), crop)
	}
	write(base+"_detection_result.png", s.Highlight(img, result, false))
	write(base+"_location_result.png", s.Highlight(img, result, true))
}
