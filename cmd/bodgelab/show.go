package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/app"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/index"
	"github.com/spf13/cobra"
)

func newShowCmd(root *rootOptions) *cobra.Command {
	var body bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one episode from the persisted index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load(cmd)
			if err != nil {
				return err
			}
			st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
			if err != nil {
				return err
			}
			defer st.Close()

			e, err := st.Get(args[0])
			if errors.Is(err, index.ErrNotFound) {
				return fmt.Errorf("episode %q is not in %s; run build first: %w", args[0], cfg.Build.IndexPath, err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if body {
				md, err := app.ReadBody(e)
				if err != nil {
					return err
				}
				_, err = out.Write(md)
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(e)
		},
	}
	cmd.Flags().BoolVar(&body, "body", false, "print the markdown body instead of the record")
	return cmd
}
