package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-gin-taskhub/internal/app"
	"go-gin-taskhub/internal/core/config"
)

type rootFlags struct {
	configFile string
}

// NewRootCmd creates the admin CLI with every subcommand attached.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:          "taskhub-admin",
		Short:        "Taskhub admin API and operations",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&f.configFile, "config", "", "config file path (default $CONFIG_PATH or "+config.DefaultPath+")")

	cmd.AddCommand(NewServeCmd(f))
	cmd.AddCommand(NewMigrateCmd(f))
	cmd.AddCommand(NewSeedCmd(f))
	cmd.AddCommand(NewUserCmd(f))
	cmd.AddCommand(NewTokenCmd(f))
	return cmd
}

func (f *rootFlags) load() (*config.Config, error) {
	path := f.configFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("path", path).Wrap(err)
	}
	return cfg, nil
}

// build loads config and assembles the app; the returned func releases both.
func (f *rootFlags) build() (*app.App, func(), error) {
	cfg, err := f.load()
	if err != nil {
		return nil, nil, err
	}
	log, cleanup := app.NewLogger(cfg)
	a, err := app.Build(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.DB.Driver).Wrap(err)
	}
	return a, func() {
		if err := a.Close(); err != nil {
			log.Warn("close", zap.Error(err))
		}
		cleanup()
	}, nil
}
