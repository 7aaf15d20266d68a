package main

import (
	"context"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/serve"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr    string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON API and rebuild on source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if noWatch {
				cfg.Serve.Watch = false
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := serve.New(cfg, log)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides serve.addr)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not rebuild when sources change")
	return cmd
}
