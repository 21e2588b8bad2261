package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ichi/internal/config"
	"github.com/vovakirdan/ichi/internal/log"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	endpoint   string
	apiURL     string
	username   string

	cfg config.Config
	log *zerolog.Logger
}

// NewRootCommand builds the ichi command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "ichi",
		Short:         "Play Ichi from the terminal",
		Long:          "Play Ichi, a multiplayer shedding card game, and manage your account.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to the config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.endpoint, "endpoint", "", "game endpoint, e.g. ws://localhost:8080/ws")
	flags.StringVar(&opts.apiURL, "api", "", "account API base URL")
	flags.StringVarP(&opts.username, "user", "u", "", "username to play as")

	root.AddCommand(newPlayCommand(opts))
	root.AddCommand(newLoginCommand(opts))
	root.AddCommand(newRegisterCommand(opts))
	root.AddCommand(newStatsCommand(opts))
	return root
}

func (o *options) load() error {
	cfg, _, err := config.LoadClient(nil, o.configPath)
	if err != nil {
		return err
	}
	cfg.UpdateFrom(config.Config{
		LogLevel: o.logLevel,
		Client: config.ClientConfig{
			GameEndpoint: o.endpoint,
			APIURL:       o.apiURL,
			Username:     o.username,
		},
	})
	o.cfg = cfg
	o.log = log.NewFile(cfg.LogLevel, cfg.LogFile)
	return nil
}
