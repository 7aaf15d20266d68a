// Package build exports the catalog as a tree of static JSON documents.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/app"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/catalog"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/config"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/site"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/index"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/ingest"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/logger"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/render"
	"log/slog"
	"os"
	"path/filepath"
)

type Builder struct {
	Cfg config.Config
	Log *slog.Logger
	// Force skips the episode cache.
	Force bool
}

type Result struct {
	Episodes  int
	Routes    int
	FromCache bool
	Warnings  []ingest.Warning
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	log := logger.OrDiscard(b.Log)

	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	md := render.NewMarkdownRenderer()
	cat := catalog.New(CatalogOptions(b.Cfg, b.Log))
	loaded, err := Refresh(ctx, &Loader{Cfg: b.Cfg, Store: st, Markdown: md, Log: b.Log}, cat, b.Force)
	if err != nil {
		return nil, err
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	rb := &app.RouteBuilder{Views: &app.Views{
		Catalog:  cat,
		Markdown: md,
		Title:    b.Cfg.Site.Title,
		Locale:   b.Cfg.Site.Language,
	}}
	routes := rb.BuildRoutes()
	for _, r := range routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.writeRoute(rb, r); err != nil {
			return nil, err
		}
	}

	log.Info("export written", "dir", outDir, "routes", len(routes), "episodes", cat.Len())
	return &Result{
		Episodes:  cat.Len(),
		Routes:    len(routes),
		FromCache: loaded.FromCache,
		Warnings:  loaded.Warnings,
	}, nil
}

func (b *Builder) writeRoute(rb *app.RouteBuilder, r site.Route) error {
	payload, err := rb.Payload(r, b.Cfg.Build.Now)
	if err != nil {
		return fmt.Errorf("build %s: %w", r, err)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", r, err)
	}
	return writeFile(b.Cfg.Build.PublicDir, r.OutPath, append(data, '\n'))
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}
