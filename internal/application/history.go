package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
)

// HistoryService сохранение проверок и работа с историей.
type HistoryService struct {
	repo    port.InspectionRepository
	archive port.RecordArchive
	log     zerolog.Logger
}

// NewHistoryService создаёт сервис истории. archive может быть nil.
func NewHistoryService(repo port.InspectionRepository, archive port.RecordArchive, logger zerolog.Logger) *HistoryService {
	return &HistoryService{
		repo:    repo,
		archive: archive,
		log:     logger.With().Str("component", "history").Logger(),
	}
}

// Save сохраняет снимок и его дефекты. Результат проверки при ошибке не теряется:
// вызывающий по-прежнему владеет result.
func (h *HistoryService) Save(ctx context.Context, url string, result *entity.InspectionResult) (int64, error) {
	id, err := h.repo.SavePicture(ctx, entity.Picture{
		URL:         url,
		DefectCount: result.Summary.Defects(),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: save picture: %w", entity.ErrPersistence, err)
	}

	defects := make([]entity.StoredDefect, 0, len(result.Records))
	for _, rec := range result.Records {
		defects = append(defects, entity.NewStoredDefect(id, url, rec))
	}
	if len(defects) > 0 {
		if err := h.repo.SaveDefects(ctx, defects); err != nil {
			return id, fmt.Errorf("%w: save defects: %w", entity.ErrPersistence, err)
		}
	}

	h.log.Info().Int64("picture", id).Int("defects", len(defects)).Str("url", url).Msg("inspection saved")
	return id, nil
}

// History возвращает все сохранённые снимки.
func (h *HistoryService) History(ctx context.Context) ([]entity.Picture, error) {
	return h.repo.Pictures(ctx)
}

// Defects возвращает дефекты снимка или entity.ErrNotFound, если снимка нет.
func (h *HistoryService) Defects(ctx context.Context, pictureID int64) ([]entity.StoredDefect, error) {
	if _, err := h.repo.Picture(ctx, pictureID); err != nil {
		return nil, err
	}
	return h.repo.Defects(ctx, pictureID)
}

// Restore загружает историю из архива в хранилище.
func (h *HistoryService) Restore(ctx context.Context) error {
	if h.archive == nil {
		return fmt.Errorf("%w: archive is not configured", entity.ErrPersistence)
	}

	pictures, defects, err := h.archive.Read(ctx)
	if err != nil {
		return err
	}
	if err := h.repo.Restore(ctx, pictures, defects); err != nil {
		return fmt.Errorf("%w: restore: %w", entity.ErrPersistence, err)
	}

	h.log.Debug().Int("pictures", len(pictures)).Int("defects", len(defects)).Msg("history restored")
	return nil
}

// Export выгружает всю историю во внешний архив.
func (h *HistoryService) Export(ctx context.Context) error {
	if h.archive == nil {
		return fmt.Errorf("%w: archive is not configured", entity.ErrPersistence)
	}

	pictures, err := h.repo.Pictures(ctx)
	if err != nil {
		return fmt.Errorf("%w: list pictures: %w", entity.ErrPersistence, err)
	}

	var defects []entity.StoredDefect
	for _, p := range pictures {
		d, err := h.repo.Defects(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("%w: list defects of %d: %w", entity.ErrPersistence, p.ID, err)
		}
		defects = append(defects, d...)
	}

	if err := h.archive.Export(ctx, pictures, defects); err != nil {
		return err
	}
	h.log.Info().Int("pictures", len(pictures)).Int("defects", len(defects)).Msg("history exported")
	return nil
}
