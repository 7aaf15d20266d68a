package main

import (
	"encoding/json"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/calendar"
	"github.com/spf13/cobra"
	"strconv"
	"strings"
)

func newDateCmd(root *rootOptions) *cobra.Command {
	var (
		locale string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "date <date>",
		Short:   "Parse a date and describe it",
		Example: "  bodgelab date May 13, 1971\n  bodgelab date -- -134999-07-21\n  bodgelab date 12/25/1 BCE --locale fr",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if locale == "" {
				cfg, _, err := root.load(cmd)
				if err != nil {
					return err
				}
				locale = cfg.Site.Language
			}

			input := strings.Join(args, " ")
			d, err := calendar.Parse(input)
			if err != nil {
				return err
			}
			desc := calendar.Describe(d, locale, calendar.Today())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(desc)
			}
			fmt.Fprintln(out, renderTable([]string{"FIELD", "VALUE"}, [][]string{
				{"input", input},
				{"iso", desc.ISO},
				{"date", desc.Formatted},
				{"weekday", desc.Weekday},
				{"year", desc.YearLabel},
				{"julian day", strconv.FormatFloat(desc.JDN, 'f', 1, 64)},
				{"unix ms", strconv.FormatInt(desc.UnixMilli, 10)},
				{"relative", desc.Relative},
			}, 0))
			return nil
		},
	}
	cmd.Flags().StringVarP(&locale, "locale", "l", "", "BCP 47 locale for names (default site.language)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
