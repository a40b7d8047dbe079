package main

import (
	"github.com/spf13/cobra"
)

type historyDefect struct {
	Category   string  `yaml:"category"`
	Confidence float64 `yaml:"confidence"`
	Location   string  `yaml:"location"`
	X          int     `yaml:"x"`
	Y          int     `yaml:"y"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
}

type historyPicture struct {
	ID          int64           `yaml:"id"`
	URL         string          `yaml:"url"`
	DefectCount int             `yaml:"defect_count"`
	CreatedAt   string          `yaml:"created_at"`
	Defects     []historyDefect `yaml:"defects,omitempty"`
}

func newHistoryCmd(env *runtimeEnv) *cobra.Command {
	var pictureID int64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored inspections",
		Long:  `Lists inspections stored with "detect --save". With --picture, also lists its defects.`,
		Example: `  film-inspector history
  film-inspector history --picture 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := env.container()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if err := c.HistoryService.Restore(ctx); err != nil {
				return err
			}

			pictures, err := c.HistoryService.History(ctx)
			if err != nil {
				return err
			}

			out := make([]historyPicture, 0, len(pictures))
			for _, p := range pictures {
				if pictureID != 0 && p.ID != pictureID {
					continue
				}
				hp := historyPicture{
					ID:          p.ID,
					URL:         p.URL,
					DefectCount: p.DefectCount,
					CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
				}
				if pictureID != 0 {
					defects, err := c.HistoryService.Defects(ctx, p.ID)
					if err != nil {
						return err
					}
					for _, d := range defects {
						box, err := d.Box()
						if err != nil {
							env.log.Warn().Err(err).Int64("defect", d.ID).Msg("bad location")
						}
						hp.Defects = append(hp.Defects, historyDefect{
							Category:   d.CategoryLabel,
							Confidence: d.Confidence,
							Location:   d.Location,
							X:          box.X,
							Y:          box.Y,
							Width:      box.Width,
							Height:     box.Height,
						})
					}
				}
				out = append(out, hp)
			}

			return writeYAML(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().Int64Var(&pictureID, "picture", 0, "Show defects of one picture")

	return cmd
}
