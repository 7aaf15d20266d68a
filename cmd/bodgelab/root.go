package main

import (
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/config"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/logger"
	"github.com/spf13/cobra"
	"log/slog"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "bodgelab",
		Short:         "Episode catalog with a deep-time calendar",
		Long:          "bodgelab ingests episode notes, groups them by era and tag, and serves or exports the catalog.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "bodgelab.yaml", "config file; defaults apply when it does not exist")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(opts),
		newBuildCmd(opts),
		newQueryCmd(opts),
		newDateCmd(opts),
		newShowCmd(opts),
	)
	return root
}

// load reads the config file and builds the logger it describes. Logs go to
// stderr so command output stays pipeable.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("config %s: %w", o.configPath, err)
	}

	lc := logger.DefaultConfig()
	lc.Version = version
	if cfg.Log.Level != "" {
		lc.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		lc.Format = cfg.Log.Format
	}
	if o.verbose {
		lc.Level = "debug"
	}
	return cfg, logger.New(lc, cmd.ErrOrStderr()), nil
}
