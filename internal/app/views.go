package app

import (
	"errors"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/calendar"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/catalog"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	domainerr "github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/errors"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/ingest"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/render"
	"io/fs"
	"os"
	"time"
)

type Summary struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Facets struct {
	Tags    []string `json:"tags"`
	Models  []string `json:"models"`
	Origins []string `json:"origins"`
	Zones   []string `json:"zones"`
	Locales []string `json:"locales"`
	Regions []string `json:"regions"`
	Years   []string `json:"years"`
}

type IndexView struct {
	Title      string            `json:"title"`
	Generated  time.Time         `json:"generated"`
	Generation uint64            `json:"generation"`
	Episodes   []content.Episode `json:"episodes"`
}

type EpisodeView struct {
	content.Episode
	DateLabel string           `json:"date_label,omitempty"`
	HTML      string           `json:"html"`
	Headings  []render.Heading `json:"headings,omitempty"`
}

// Views shapes catalog state into the documents served over HTTP and written
// by the static export.
type Views struct {
	Catalog  *catalog.Catalog
	Markdown *render.MarkdownRenderer
	Title    string
	Locale   string
}

func (v *Views) Index(now time.Time) IndexView {
	return IndexView{
		Title:      v.Title,
		Generated:  now.UTC(),
		Generation: v.Catalog.Generation(),
		Episodes:   v.Catalog.FilteredAndSorted(catalog.Criteria{}),
	}
}

func (v *Views) Facets() Facets {
	c := v.Catalog
	return Facets{
		Tags:    c.AvailableTags(),
		Models:  c.AvailableModels(),
		Origins: c.AvailableOrigins(),
		Zones:   c.AvailableZones(),
		Locales: c.AvailableLocales(),
		Regions: c.AvailableRegions(),
		Years:   c.AvailableYears(),
	}
}

func (v *Views) Years() []Summary {
	groups := v.Catalog.EpisodesByYear()
	out := make([]Summary, len(groups))
	for i, g := range groups {
		out[i] = Summary{Label: g.Label, Count: len(g.Episodes)}
	}
	return out
}

func (v *Views) Tags() []Summary {
	groups := v.Catalog.EpisodesByTag()
	out := make([]Summary, len(groups))
	for i, g := range groups {
		out[i] = Summary{Label: g.Label, Count: len(g.Episodes)}
	}
	return out
}

func (v *Views) Period(label string) (catalog.YearGroup, error) {
	for _, g := range v.Catalog.EpisodesByYear() {
		if g.Label == label {
			return g, nil
		}
	}
	return catalog.YearGroup{}, fmt.Errorf("period %q: %w", label, domainerr.ErrNotFound)
}

func (v *Views) Tag(label string) (catalog.TagGroup, error) {
	for _, g := range v.Catalog.EpisodesByTag() {
		if g.Label == label {
			return g, nil
		}
	}
	return catalog.TagGroup{}, fmt.Errorf("tag %q: %w", label, domainerr.ErrNotFound)
}

// Episode renders one episode with its markdown body as HTML.
func (v *Views) Episode(id string) (EpisodeView, error) {
	e, ok := v.Catalog.Episode(id)
	if !ok {
		return EpisodeView{}, fmt.Errorf("episode %q: %w", id, domainerr.ErrNotFound)
	}

	body, err := ReadBody(e)
	if err != nil {
		return EpisodeView{}, err
	}
	md := v.Markdown
	if md == nil {
		md = render.NewMarkdownRenderer()
	}
	res, err := md.Render(body)
	if err != nil {
		return EpisodeView{}, fmt.Errorf("render %q: %w", id, err)
	}

	view := EpisodeView{Episode: e, HTML: string(res.HTML), Headings: res.Headings}
	if e.Date != nil {
		view.DateLabel = e.Date.Format(v.Locale, calendar.FormatOptions{
			Weekday: "long",
			Month:   "long",
			Day:     "numeric",
			Year:    "numeric",
		})
	}
	return view, nil
}

// ReadBody returns the markdown body of e without its front matter.
func ReadBody(e content.Episode) ([]byte, error) {
	if e.Body.FromFeed || e.Body.SourcePath == "" {
		return []byte(e.Body.Inline), nil
	}
	raw, err := os.ReadFile(e.Body.SourcePath)
	if errors.Is(err, fs.ErrNotExist) {
		// the catalog still lists an episode whose file was removed
		return nil, fmt.Errorf("read body of %q: %w: %w", e.ID, domainerr.ErrNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read body of %q: %w", e.ID, err)
	}
	// without a valid header the whole file is the body
	_, body, _ := ingest.ParseFrontMatter(raw)
	return body, nil
}
