package container

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"film-inspector/config"
	app "film-inspector/internal/application"
	"film-inspector/internal/domain/entity"
	"film-inspector/internal/domain/port"
	"film-inspector/internal/infrastructure/labels"
	"film-inspector/internal/infrastructure/storage"
	"film-inspector/internal/infrastructure/vision"
)

// Container собирает зависимости один раз при запуске.
type Container struct {
	Config *config.Config
	Logger zerolog.Logger

	Labels     labels.Table
	Classifier port.RegionClassifier // nil, если модель не загрузилась
	ModelErr   error

	Users       port.UserRepository
	Inspections port.InspectionRepository
	Archive     *storage.ParquetArchive

	UserService       *app.UserService
	InspectionService *app.InspectionService
	HistoryService    *app.HistoryService
}

// New собирает контейнер. Ошибка модели не фатальна: сервис остаётся
// доступным для поиска областей, а причина сохраняется в ModelErr.
func New(cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	table, err := loadLabels(cfg, logger)
	if err != nil {
		return nil, err
	}

	classifier, modelErr := vision.NewClassifier(cfg.Backend, cfg.ModelPath, cfg.ORTLibrary)
	if modelErr != nil {
		logger.Error().Err(modelErr).Str("model", cfg.ModelPath).Msg("classification disabled")
		classifier = nil
	} else {
		logger.Info().Str("model", cfg.ModelPath).Str("backend", cfg.Backend).Msg("model loaded")
	}

	return Build(cfg, logger, classifier, table, modelErr), nil
}

// Build собирает контейнер из готового классификатора (в тестах - заглушки).
func Build(cfg *config.Config, logger zerolog.Logger, classifier port.RegionClassifier, table labels.Table, modelErr error) *Container {
	users := storage.NewMemoryUserRepository()
	inspections := storage.NewMemoryInspectionRepository()
	archive := storage.NewParquetArchive(filepath.Join(cfg.OutputDir, "archive"))

	var artifacts port.ArtifactWriter
	if cfg.OutputDir != "" {
		artifacts = storage.NewDirWriter(filepath.Join(cfg.OutputDir, "binary"))
	}

	inspection := app.NewInspectionService(vision.DefaultSegmenter(), classifier, vision.NewRenderer(), app.Options{
		Workers:   cfg.Workers,
		Artifacts: artifacts,
		Logger:    logger,
	})

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Labels:            table,
		Classifier:        classifier,
		ModelErr:          modelErr,
		Users:             users,
		Inspections:       inspections,
		Archive:           archive,
		UserService:       app.NewUserService(users),
		InspectionService: inspection,
		HistoryService:    app.NewHistoryService(inspections, archive, logger),
	}
}

// NewBatchJob создаёт задание пакетной классификации.
func (c *Container) NewBatchJob() *app.BatchJob {
	return app.NewBatchJob(c.Classifier, vision.Load, c.Logger)
}

// Close освобождает модель.
func (c *Container) Close() error {
	if c.Classifier == nil {
		return nil
	}
	return c.Classifier.Close()
}

func loadLabels(cfg *config.Config, logger zerolog.Logger) (labels.Table, error) {
	table, err := labels.Load(cfg.LabelsPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.LabelsPath).Msg("label file not read, using built-in labels")
		table = labels.Default()
	}

	if err := labels.Validate(table); err != nil {
		if cfg.StrictLabels {
			return nil, fmt.Errorf("label table: %w", err)
		}
		logger.Warn().Err(err).Msg("label table does not match class mapping")
	}
	return table, nil
}

// ClassificationError причина, по которой классификация недоступна.
func (c *Container) ClassificationError() error {
	if c.Classifier != nil {
		return nil
	}
	if c.ModelErr != nil {
		return c.ModelErr
	}
	return entity.ErrModelLoad
}
