package main

import (
	"fmt"

	"github.com/spf13/cobra"

	app "film-inspector/internal/application"
)

func newClassifyCmd(env *runtimeEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <dir>",
		Short: "Classify pre-cut region images",
		Long: `Classifies every image in a directory as one region and counts
normal, scratch and coating gap regions. A file that cannot be read
or classified counts as normal with zero confidence.
Ctrl+C stops after the current file.`,
		Example: `  film-inspector classify data/detect`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := app.ListImages(args[0])
			if err != nil {
				return err
			}

			c, err := env.container()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.ClassificationError(); err != nil {
				return err
			}

			job := c.NewBatchJob()
			res, err := job.Run(cmd.Context(), paths, func(p app.BatchProgress) {
				fmt.Fprintf(cmd.ErrOrStderr(), "\r[%d/%d] %s", p.Done, p.Total, p.Path)
			})
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return writeYAML(cmd.OutOrStdout(), res)
		},
	}

	return cmd
}
