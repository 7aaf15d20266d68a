package main

import (
	"encoding/json"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/build"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/catalog"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/index"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/render"
	"github.com/spf13/cobra"
	"strings"
)

const excerptLen = 48

func newQueryCmd(root *rootOptions) *cobra.Command {
	var (
		crit   catalog.Criteria
		sortBy string
		order  string
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter and sort the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
			if err != nil {
				return err
			}
			defer st.Close()

			md := render.NewMarkdownRenderer()
			cat := catalog.New(build.CatalogOptions(cfg, log))
			if _, err := build.Refresh(cmd.Context(), &build.Loader{Cfg: cfg, Store: st, Markdown: md, Log: log}, cat, false); err != nil {
				return err
			}

			crit.SortBy = catalog.ParseSortKey(sortBy)
			crit.Order = catalog.Order(strings.ToLower(order))
			eps := cat.FilteredAndSorted(crit)
			total := len(eps)
			if limit > 0 && limit < total {
				eps = eps[:limit]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(eps)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "DATE", "TITLE", "TAGS", "SUMMARY"},
				episodeRows(eps, md),
				4,
			))
			fmt.Fprintf(out, "%d of %d episodes\n", len(eps), total)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&crit.Search, "search", "s", "", "case-insensitive text search")
	f.StringVarP(&crit.Tag, "tag", "t", "", "tag, or \""+catalog.MiscTagsLabel+"\"")
	f.StringVar(&crit.Model, "model", "", "exact model")
	f.StringVar(&crit.Origin, "origin", "", "exact origin")
	f.StringVar(&crit.Zone, "zone", "", "exact zone")
	f.StringVar(&crit.Locale, "locale", "", "exact locale")
	f.StringVar(&crit.Region, "region", "", "exact region")
	f.StringVarP(&crit.Year, "year", "y", "", "period label, e.g. 1971, \"135000 BCE\" or 1-3")
	f.StringVar(&sortBy, "sort", "published", "published, date, title, duration or integrity")
	f.StringVar(&order, "order", "desc", "asc or desc")
	f.IntVarP(&limit, "limit", "n", 0, "show at most n episodes")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func episodeRows(eps []content.Episode, md *render.MarkdownRenderer) [][]string {
	rows := make([][]string, len(eps))
	for i, e := range eps {
		date := "-"
		if e.Date != nil {
			date = e.Date.String()
		}
		rows[i] = []string{
			e.ID,
			date,
			e.Title,
			strings.Join(e.Tags, ", "),
			md.Excerpt([]byte(e.Description), excerptLen),
		}
	}
	return rows
}
