package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"film-inspector/config"
	"film-inspector/internal/container"
	"film-inspector/internal/logging"
)

// runtimeEnv общие флаги и конфигурация для всех команд.
type runtimeEnv struct {
	configPath string
	logLevel   string
	human      bool
	workers    int

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	env := &runtimeEnv{}

	cmd := &cobra.Command{
		Use:   "film-inspector",
		Short: "Defect inspection for lithium battery separator film",
		Long: `film-inspector finds scratches and coating gaps on separator film images.

Dark regions are located by thresholding, morphology and contour tracing,
then every candidate region is classified by an 8-class CNN.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&env.configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&env.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&env.human, "human", false, "Human-readable console logs")
	cmd.PersistentFlags().IntVar(&env.workers, "workers", 0, "Classification workers (default: number of CPUs)")

	cmd.AddCommand(newDetectCmd(env))
	cmd.AddCommand(newRefineCmd(env))
	cmd.AddCommand(newClassifyCmd(env))
	cmd.AddCommand(newHistoryCmd(env))
	cmd.AddCommand(newLabelsCmd(env))
	cmd.AddCommand(newBotCmd(env))

	return cmd
}

// load читает .env, YAML и окружение; флаги командной строки важнее всего.
func (e *runtimeEnv) load(cmd *cobra.Command) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = e.logLevel
	}
	if flags.Changed("human") {
		cfg.LogHuman = e.human
	}
	if flags.Changed("workers") {
		cfg.Workers = e.workers
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.cfg = cfg
	e.log = logging.Setup(cfg.LogLevel, cfg.LogHuman)
	return nil
}

func (e *runtimeEnv) container() (*container.Container, error) {
	return container.New(e.cfg, e.log)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
