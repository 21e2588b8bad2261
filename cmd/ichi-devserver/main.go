package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ichi/internal/app"
	"github.com/vovakirdan/ichi/internal/config"
	"github.com/vovakirdan/ichi/internal/log"
)

func main() {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:          "ichi-devserver",
		Short:        "Run a local Ichi game and account server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLog := log.New("info")
			cfg, path, err := config.Load(bootLog, configPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(overrides)

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Server.Addr).Msg("starting ichi dev server")

			application, err := app.New(cfg.Server, logger)
			if err != nil {
				return err
			}
			if err := application.Run(cmd.Context()); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to the config file")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&overrides.Server.Addr, "addr", "", "HTTP listen address")
	flags.StringVar(&overrides.Server.DatabasePath, "db", "", "sqlite database path")
	flags.DurationVar(&overrides.Server.TurnTimeout, "turn-timeout", 0, "time a player has for a turn")
	flags.DurationVar(&overrides.Server.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
