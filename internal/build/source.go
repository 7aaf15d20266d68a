package build

import (
	"context"
	"errors"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/catalog"
	fingerprint "github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/build"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/config"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/index"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/ingest"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/logger"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/metrics"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/render"
	"log/slog"
	"time"
)

// Loader produces the episode list, from the persisted index when it still
// matches the sources and from a fresh ingest otherwise.
type Loader struct {
	Cfg      config.Config
	Store    *index.Store // optional
	Markdown *render.MarkdownRenderer
	Log      *slog.Logger
}

type Loaded struct {
	Episodes    []content.Episode
	Warnings    []ingest.Warning
	FromCache   bool
	Fingerprint string
}

// Fingerprint covers the source revisions and every setting that changes
// what ingest produces.
func Fingerprint(cfg config.Config, stamps []string) fingerprint.Fingerprint {
	settings := fingerprint.HashStrings([]string{
		"source_dir=" + cfg.Build.SourceDir,
		"feed_file=" + cfg.Build.FeedFile,
		"unparseable_dates=" + string(cfg.Catalog.DatePolicyOrDefault()),
	})
	return fingerprint.NewFingerprint(fingerprint.HashStrings(stamps), settings)
}

// Load returns the episodes in index.DateOrder. With force set the cache is
// never read, only rewritten.
func (l *Loader) Load(ctx context.Context, force bool) (Loaded, error) {
	log := logger.OrDiscard(l.Log)

	stamps, err := ingest.Stamps(l.Cfg.Build.SourceDir, l.Cfg.Build.FeedFile)
	if err != nil {
		return Loaded{}, err
	}
	fp := Fingerprint(l.Cfg, stamps).Sum

	if l.Store != nil && !force {
		eps, st, err := l.Store.Load(index.LoadOptions{
			MaxAge:      l.Cfg.Build.CacheTTL,
			Fingerprint: fp,
			Now:         time.Now(),
		})
		switch {
		case err == nil:
			log.Debug("episode cache hit", "episodes", len(eps), "saved_at", st.SavedAt)
			return Loaded{Episodes: eps, FromCache: true, Fingerprint: fp}, nil
		case errors.Is(err, index.ErrStale), errors.Is(err, index.ErrNotFound):
			log.Debug("episode cache miss", "reason", err)
		default:
			log.Warn("episode cache unreadable, ingesting", "error", err)
		}
	}

	eps, warns, err := ingest.Ingest(ctx, ingest.Options{
		SourceDir: l.Cfg.Build.SourceDir,
		FeedFile:  l.Cfg.Build.FeedFile,
		Dates:     l.Cfg.Catalog.DatePolicyOrDefault(),
		Renderer:  l.Markdown,
		Logger:    l.Log,
	})
	if err != nil {
		return Loaded{}, fmt.Errorf("ingest: %w", err)
	}
	for _, w := range warns {
		log.Warn("ingest warning", "path", w.Path, "msg", w.Msg)
	}
	metrics.IngestWarnings.Add(float64(len(warns)))

	eps = index.DateOrder(eps)
	if l.Store != nil {
		if err := l.Store.Save(eps, fp, time.Now()); err != nil {
			log.Warn("episode cache not saved", "error", err)
		}
	}
	return Loaded{Episodes: eps, Warnings: warns, Fingerprint: fp}, nil
}

// Refresh loads the episodes and swaps them into cat.
func Refresh(ctx context.Context, l *Loader, cat *catalog.Catalog, force bool) (Loaded, error) {
	start := time.Now()
	loaded, err := l.Load(ctx, force)

	source := metrics.SourceIngest
	if loaded.FromCache {
		source = metrics.SourceCache
	}
	if err != nil {
		metrics.ObserveRebuild(source, time.Since(start), 0, err)
		return Loaded{}, err
	}
	cat.ReplaceItems(loaded.Episodes)
	metrics.ObserveRebuild(source, time.Since(start), cat.Len(), nil)

	logger.OrDiscard(l.Log).Info("catalog refreshed",
		"episodes", cat.Len(),
		"generation", cat.Generation(),
		"source", source,
		"warnings", len(loaded.Warnings),
		"took", time.Since(start),
	)
	return loaded, nil
}

// CatalogOptions maps the catalog section of the configuration.
func CatalogOptions(cfg config.Config, log *slog.Logger) catalog.Options {
	return catalog.Options{
		PeriodThreshold: cfg.Catalog.PeriodThreshold,
		TagThreshold:    cfg.Catalog.TagThreshold,
		QueryCacheSize:  cfg.Catalog.QueryCacheSize,
		Logger:          log,
	}
}
