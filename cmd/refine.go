package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/infrastructure/storage"
	"film-inspector/internal/infrastructure/vision"
)

type refineOutput struct {
	Image   string   `yaml:"image"`
	Policy  string   `yaml:"policy"`
	Regions int      `yaml:"regions"`
	Boxes   []string `yaml:"boxes"`
	Mask    string   `yaml:"mask,omitempty"`
	Result  string   `yaml:"result,omitempty"`
}

func newRefineCmd(env *runtimeEnv) *cobra.Command {
	var area string

	cmd := &cobra.Command{
		Use:   "refine <image>",
		Short: "Re-detect defects with the strict region filter",
		Long: `Locates defect regions with the strict filter, without classification.
Use --area to search only inside a part of the image; boxes are still
reported in full-image coordinates.`,
		Example: `  film-inspector refine data/film_001.bmp --area "(80,80,300,300)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var box entity.BoundingBox
			if area != "" {
				b, err := entity.ParseLocation(area)
				if err != nil {
					return fmt.Errorf("--area: %w", err)
				}
				box = b
			}

			c, err := env.container()
			if err != nil {
				return err
			}
			defer c.Close()

			path := args[0]
			img, err := vision.Load(path)
			if err != nil {
				return err
			}

			det, err := c.InspectionService.Refine(cmd.Context(), img, box)
			if err != nil {
				return err
			}

			out := refineOutput{
				Image:   path,
				Policy:  det.Localization.Policy,
				Regions: len(det.Localization.Regions),
				Boxes:   make([]string, 0, len(det.Localization.Boxes)),
			}
			records := make([]entity.DefectRecord, 0, len(det.Localization.Boxes))
			for _, b := range det.Localization.Boxes {
				out.Boxes = append(out.Boxes, b.Location())
				records = append(records, entity.DefectRecord{Category: entity.CategoryScratch, Box: b})
			}

			writer := storage.NewDirWriter(filepath.Join(env.cfg.OutputDir, "binary"))
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if out.Mask, err = writer.Write(base+"_refine_binary.png", det.Mask); err != nil {
				return err
			}
			if out.Result, err = writer.Write(base+"_refine_result.png", vision.Annotate(img, records, vision.AnnotateLocations)); err != nil {
				return err
			}

			return writeYAML(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&area, "area", "", `Search area as "(x,y,w,h)"`)

	return cmd
}
