package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"film-inspector/internal/domain/entity"
	"film-inspector/internal/infrastructure/labels"
)

func newLabelsCmd(env *runtimeEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Print the class label table and check it against the class mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := labels.Load(env.cfg.LabelsPath)
			if err != nil {
				env.log.Warn().Err(err).Msg("using built-in labels")
				table = labels.Default()
			}

			w := cmd.OutOrStdout()
			for _, i := range table.Indices() {
				fmt.Fprintf(w, "%d\t%-12s\t%s\n", i, table.Label(i), entity.CategoryFor(i))
			}

			if err := labels.Validate(table); err != nil {
				return fmt.Errorf("label table does not match class mapping: %w", err)
			}
			fmt.Fprintln(w, "ok")
			return nil
		},
	}

	return cmd
}
