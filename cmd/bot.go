package main

import (
	"errors"

	"github.com/spf13/cobra"

	telegram "film-inspector/internal/api"
)

func newBotCmd(env *runtimeEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot for operators",
		Long:  `Runs the Telegram bot. The token is read from TELEGRAM_TOKEN.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.cfg.TelegramToken == "" {
				return errors.New("TELEGRAM_TOKEN is required")
			}

			c, err := env.container()
			if err != nil {
				return err
			}
			defer c.Close()

			bot, err := telegram.NewBot(env.cfg.TelegramToken, c)
			if err != nil {
				return err
			}

			env.log.Info().Msg("bot is running")
			return bot.Run(cmd.Context())
		},
	}

	return cmd
}
