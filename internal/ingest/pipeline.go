// Package ingest reads episode records from markdown files with YAML front
// matter and from an optional YAML feed file.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/build"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/config"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/logger"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/render"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

type Warning struct {
	Path string
	Msg  string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Msg
}

type Options struct {
	SourceDir string
	FeedFile  string
	Dates     config.DatePolicy
	// Workers defaults to GOMAXPROCS.
	Workers  int
	Renderer *render.MarkdownRenderer
	Logger   *slog.Logger
}

type result struct {
	episode content.Episode
	warns   []Warning
	skip    bool
	err     error
}

type pipeline struct {
	opts Options
	md   *render.MarkdownRenderer
	log  *slog.Logger
}

// Ingest parses every source into episodes. Markdown files come first in path
// order, then feed entries in file order. Records that cannot be used are
// skipped with a warning; only I/O failures and a malformed feed are errors.
func Ingest(ctx context.Context, opts Options) ([]content.Episode, []Warning, error) {
	start := time.Now()
	p := &pipeline{opts: opts, md: opts.Renderer, log: logger.OrDiscard(opts.Logger)}
	if p.md == nil {
		p.md = render.NewMarkdownRenderer()
	}

	var files []SourceFile
	if opts.SourceDir != "" {
		var err error
		if files, err = DiscoverSource(opts.SourceDir); err != nil {
			return nil, nil, err
		}
	}
	results, err := p.parseFiles(ctx, files)
	if err != nil {
		return nil, nil, err
	}

	if opts.FeedFile != "" {
		records, err := LoadFeed(opts.FeedFile)
		if err != nil {
			return nil, nil, err
		}
		for i, fm := range records {
			results = append(results, p.fromFeed(i, fm))
		}
	}

	var out []content.Episode
	var warns []Warning
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		warns = append(warns, r.warns...)
		if r.skip {
			continue
		}
		if _, dup := seen[r.episode.ID]; dup {
			warns = append(warns, Warning{
				Path: r.episode.Body.SourcePath,
				Msg:  "duplicate id, skipped: " + r.episode.ID,
			})
			continue
		}
		seen[r.episode.ID] = struct{}{}
		out = append(out, r.episode)
	}

	p.log.Debug("ingest finished",
		"files", len(files),
		"episodes", len(out),
		"warnings", len(warns),
		"took", time.Since(start),
	)
	return out, warns, nil
}

func (p *pipeline) parseFiles(ctx context.Context, files []SourceFile) ([]result, error) {
	workers := p.opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]result, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = p.parseFile(files[i])
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, r := range out {
		if r.err != nil {
			return nil, r.err
		}
	}
	return out, nil
}

func (p *pipeline) parseFile(sf SourceFile) result {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return result{err: fmt.Errorf("ingest: read %s: %w", sf.Path, err)}
	}

	fm, body, fmErr := ParseFrontMatter(raw)
	if fmErr != nil && !errors.Is(fmErr, errNoFrontMatter) {
		return result{
			skip:  true,
			warns: []Warning{{Path: sf.Path, Msg: "failed to parse front matter: " + fmErr.Error()}},
		}
	}
	if fm.Hidden {
		return result{skip: true}
	}

	id := ResolveID(fm, sf.Path)
	if id == "" {
		return result{skip: true, warns: []Warning{{Path: sf.Path, Msg: "empty id"}}}
	}

	ep, warns := p.episode(fm, id, body, sf.Path)
	ep.Body = content.BodyRef{SourcePath: sf.Path, ContentHash: build.HashBytes(raw)}
	return result{episode: ep, warns: warns}
}

func (p *pipeline) fromFeed(i int, fm FrontMatter) result {
	where := fmt.Sprintf("%s[%d]", p.opts.FeedFile, i)
	if fm.Hidden {
		return result{skip: true}
	}

	id := ResolveID(fm, "")
	if id == "" {
		id = fmt.Sprintf("feed-%d", i+1)
	}

	body := []byte(strings.TrimSpace(fm.Body))
	ep, warns := p.episode(fm, id, body, where)
	ep.Body = content.BodyRef{
		SourcePath:  where,
		FromFeed:    true,
		Inline:      string(body),
		ContentHash: build.HashBytes(body),
	}
	return result{episode: ep, warns: warns}
}

func (p *pipeline) episode(fm FrontMatter, id string, body []byte, where string) (content.Episode, []Warning) {
	var warns []Warning
	warn := func(msg string) { warns = append(warns, Warning{Path: where, Msg: msg}) }

	ep := content.Episode{
		ID:          id,
		Title:       fm.Title,
		Description: strings.TrimSpace(fm.Description),
		Location:    fm.Location,
		RawDate:     strings.TrimSpace(fm.Date),
		Tags:        fm.Tags,
		Model:       fm.Model,
		Origin:      fm.Origin,
		Locale:      fm.Locale,
		Region:      fm.Region,
		Zone:        fm.Zone,
		Duration:    fm.Duration,
		Integrity:   fm.Integrity,
	}
	if ep.Description == "" {
		ep.Description = p.md.PlainText(body)
	}

	date, msg := resolveDate(fm.Date, p.opts.Dates)
	ep.Date = date
	if msg != "" {
		warn(msg)
	}

	ep.PublishedAt = ParseTime(fm.Published)
	if ep.PublishedAt.IsZero() && strings.TrimSpace(fm.Published) != "" {
		warn(fmt.Sprintf("unparseable published time %q", fm.Published))
	}
	if strings.TrimSpace(fm.Title) == "" {
		warn("title is empty")
	}
	if fm.Duration < 0 {
		warn("negative duration clamped to 0")
	}

	ep.Normalize()
	return ep, warns
}

// Stamps lists a cheap revision marker for every source, for cache
// fingerprinting. File contents are not read.
func Stamps(sourceDir, feedFile string) ([]string, error) {
	var out []string
	if sourceDir != "" {
		files, err := DiscoverSource(sourceDir)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			out = append(out, f.Stamp())
		}
	}
	if feedFile != "" {
		info, err := os.Stat(feedFile)
		if err != nil {
			return nil, fmt.Errorf("ingest: stat feed: %w", err)
		}
		out = append(out, SourceFile{Path: feedFile, Size: info.Size(), ModTime: info.ModTime()}.Stamp())
	}
	return out, nil
}
