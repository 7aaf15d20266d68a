package main

import (
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/build"
	"github.com/spf13/cobra"
)

func newBuildCmd(root *rootOptions) *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the catalog as static JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			if out != "" {
				cfg.Build.PublicDir = out
			}

			res, err := (&build.Builder{Cfg: cfg, Log: log, Force: force}).Run(cmd.Context())
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			source := "ingest"
			if res.FromCache {
				source = "cache"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d documents for %d episodes to %s (%s)\n",
				res.Routes, res.Episodes, cfg.Build.PublicDir, source)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (overrides build.public_dir)")
	cmd.Flags().BoolVar(&force, "force", false, "ignore the episode cache")
	return cmd
}
