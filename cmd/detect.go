package main

import (
	"fmt"

	"github.com/spf13/cobra"

	app "film-inspector/internal/application"
	"film-inspector/internal/domain/entity"
	"film-inspector/internal/infrastructure/labels"
	"film-inspector/internal/infrastructure/vision"
)

type defectLine struct {
	Category   string  `yaml:"category"`
	Class      string  `yaml:"class"`
	Confidence float64 `yaml:"confidence"`
	Location   string  `yaml:"location"`
}

type detectOutput struct {
	Image       string         `yaml:"image"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	Candidates  int            `yaml:"candidates"`
	Summary     entity.Summary `yaml:"summary"`
	Defects     []defectLine   `yaml:"defects"`
	Interrupted bool           `yaml:"interrupted,omitempty"`
	DurationMs  int64          `yaml:"duration_ms"`
	PictureID   int64          `yaml:"picture_id,omitempty"`
}

func newDetectCmd(env *runtimeEnv) *cobra.Command {
	var save bool
	var report bool

	cmd := &cobra.Command{
		Use:   "detect <image>...",
		Short: "Locate and classify defects on film images",
		Long: `Runs the full pipeline on each image: binarization, contour extraction,
coarse region filtering and classification of every candidate region.

Diagnostic images (mask, region crops, annotated results) are written to
<output_dir>/binary.`,
		Example: `  # Inspect one image
  film-inspector detect data/film_001.bmp

  # Inspect a series, store the results and print confidence statistics
  film-inspector detect data/*.bmp --save --report`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := env.container()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.ClassificationError(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if save {
				if err := c.HistoryService.Restore(ctx); err != nil {
					return err
				}
			}

			var results []*entity.InspectionResult
			for _, path := range args {
				img, err := vision.Load(path)
				if err != nil {
					return err
				}

				result, err := c.InspectionService.Inspect(ctx, path, img)
				if err != nil {
					return fmt.Errorf("inspect %s: %w", path, err)
				}
				results = append(results, result)

				out := newDetectOutput(path, result, c.Labels)
				if save {
					id, err := c.HistoryService.Save(ctx, path, result)
					if err != nil {
						env.log.Error().Err(err).Str("image", path).Msg("inspection not saved")
					}
					out.PictureID = id
				}
				if err := writeYAML(cmd.OutOrStdout(), out); err != nil {
					return err
				}

				if result.Interrupted {
					break
				}
			}

			if save {
				if err := c.HistoryService.Export(ctx); err != nil {
					return err
				}
			}
			if report {
				return writeYAML(cmd.OutOrStdout(), app.BuildReport(results...))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Store results in the history archive")
	cmd.Flags().BoolVar(&report, "report", false, "Print confidence statistics over all images")

	return cmd
}

func newDetectOutput(path string, result *entity.InspectionResult, table labels.Table) detectOutput {
	out := detectOutput{
		Image:       path,
		Width:       result.ImageWidth,
		Height:      result.ImageHeight,
		Candidates:  len(result.Candidates),
		Summary:     result.Summary,
		Defects:     make([]defectLine, 0, len(result.Records)),
		Interrupted: result.Interrupted,
		DurationMs:  result.Duration.Milliseconds(),
	}
	for _, rec := range result.Records {
		out.Defects = append(out.Defects, defectLine{
			Category:   rec.Category.String(),
			Class:      table.Label(classIndexOf(rec.Category)),
			Confidence: rec.Confidence,
			Location:   rec.Box.Location(),
		})
	}
	return out
}

// classIndexOf индекс класса модели для дефектной категории.
func classIndexOf(c entity.Category) int {
	switch c {
	case entity.CategoryScratch:
		return entity.ClassScratch
	case entity.CategoryCoatingGap:
		return entity.ClassCoatingGap
	default:
		return 0
	}
}
