// Package serve exposes the catalog as a JSON API and keeps it current while
// the source directory changes.
package serve

import (
	"context"
	"errors"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/app"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/build"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/catalog"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/config"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/index"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/logger"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/metrics"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

type Server struct {
	cfg config.Config
	log *slog.Logger

	idx    *index.Store
	md     *render.MarkdownRenderer
	cat    *catalog.Catalog
	views  *app.Views
	loader *build.Loader

	rebuildMu sync.Mutex

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	sseDone   chan struct{}
	sseOnce   sync.Once
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, log *slog.Logger) (*Server, error) {
	log = logger.OrDiscard(log)
	st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	md := render.NewMarkdownRenderer()
	cat := catalog.New(build.CatalogOptions(cfg, log))
	s := &Server{
		cfg: cfg,
		log: log,
		idx: st,
		md:  md,
		cat: cat,
		views: &app.Views{
			Catalog:  cat,
			Markdown: md,
			Title:    cfg.Site.Title,
			Locale:   cfg.Site.Language,
		},
		loader:   &build.Loader{Cfg: cfg, Store: st, Markdown: md, Log: log},
		sseConns: make(map[chan string]struct{}),
		sseDone:  make(chan struct{}),
	}
	return s, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

// Handler returns the full route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/episodes", s.handleEpisodes)
		r.Get("/episodes/{id}", s.handleEpisode)
		r.Get("/years", s.handleYears)
		r.Get("/years/{label}", s.handlePeriod)
		r.Get("/tags", s.handleTags)
		r.Get("/tags/{label}", s.handleTag)
		r.Get("/facets", s.handleFacets)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/events", s.handleSSE)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusNotFound, "not found")
	})
	return r
}

// ListenAndServe loads the catalog, starts the watcher when enabled and
// serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Rebuild(ctx, false); err != nil {
		return err
	}
	if s.watchEnabled() {
		if err := s.startWatch(ctx); err != nil {
			return fmt.Errorf("serve: watch: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// open event streams never finish on their own
		s.closeSSE()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown", "error", err)
		}
	}()

	s.log.Info("listening", "addr", s.cfg.Serve.Addr, "episodes", s.cat.Len())
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Rebuild refreshes the catalog and tells connected clients to reload.
// Concurrent calls run one at a time.
func (s *Server) Rebuild(ctx context.Context, force bool) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	if _, err := build.Refresh(ctx, s.loader, s.cat, force); err != nil {
		return fmt.Errorf("serve: rebuild: %w", err)
	}
	s.broadcastSSE("reload")
	return nil
}
