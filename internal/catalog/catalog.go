// Package catalog holds the episode list and every index derived from it:
// category value sets, chronological eras, tag buckets and the filtered,
// sorted listings served to clients.
//
// The derived state lives in an immutable snapshot. ReplaceItems builds a new
// snapshot in full and publishes it with a single pointer swap, so a reader
// sees either the previous list or the new one, never a mix.
package catalog

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/logger"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultPeriodThreshold = 10
	DefaultTagThreshold    = 2
)

type Options struct {
	// PeriodThreshold is the episode count that closes a year group.
	PeriodThreshold int
	// TagThreshold is the minimum bucket size for a named tag bucket;
	// smaller buckets fold into "Misc Tags".
	TagThreshold int
	// QueryCacheSize bounds the memoized FilteredAndSorted results. Zero
	// disables the cache.
	QueryCacheSize int
	Logger         *slog.Logger
}

type Catalog struct {
	opts Options
	log  *slog.Logger

	mu   sync.Mutex // serializes ReplaceItems
	snap atomic.Pointer[snapshot]

	queries *lru.Cache[queryKey, []content.Episode]
}

type queryKey struct {
	generation uint64
	criteria   Criteria
}

func New(opts Options) *Catalog {
	if opts.PeriodThreshold < 1 {
		opts.PeriodThreshold = DefaultPeriodThreshold
	}
	if opts.TagThreshold < 1 {
		opts.TagThreshold = DefaultTagThreshold
	}
	c := &Catalog{
		opts: opts,
		log:  logger.OrDiscard(opts.Logger),
	}
	if opts.QueryCacheSize > 0 {
		// only fails for a non-positive size
		c.queries, _ = lru.New[queryKey, []content.Episode](opts.QueryCacheSize)
	}
	c.snap.Store(buildSnapshot(0, nil, opts))
	return c
}

// ReplaceItems swaps in a new episode list and rebuilds every derived index
// before returning.
func (c *Catalog) ReplaceItems(items []content.Episode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	gen := c.snap.Load().generation + 1
	next := buildSnapshot(gen, items, c.opts)
	c.snap.Store(next)
	if c.queries != nil {
		c.queries.Purge()
	}

	c.log.Debug("catalog rebuilt",
		"generation", gen,
		"episodes", len(next.items),
		"periods", len(next.periodLabels),
		"tags", len(next.tags),
		"took", time.Since(start),
	)
}

// Generation increases by one on every ReplaceItems.
func (c *Catalog) Generation() uint64 { return c.snap.Load().generation }

func (c *Catalog) Len() int { return len(c.snap.Load().items) }

// Episodes returns the current list in its original order.
func (c *Catalog) Episodes() []content.Episode {
	return slices.Clone(c.snap.Load().items)
}

// Episode looks an episode up by ID.
func (c *Catalog) Episode(id string) (content.Episode, bool) {
	s := c.snap.Load()
	i, ok := s.byID[id]
	if !ok {
		return content.Episode{}, false
	}
	return s.items[i], true
}

func (c *Catalog) AvailableTags() []string    { return slices.Clone(c.snap.Load().tags) }
func (c *Catalog) AvailableModels() []string  { return slices.Clone(c.snap.Load().models) }
func (c *Catalog) AvailableOrigins() []string { return slices.Clone(c.snap.Load().origins) }
func (c *Catalog) AvailableZones() []string   { return slices.Clone(c.snap.Load().zones) }
func (c *Catalog) AvailableLocales() []string { return slices.Clone(c.snap.Load().locales) }
func (c *Catalog) AvailableRegions() []string { return slices.Clone(c.snap.Load().regions) }

// AvailableYears returns the period labels in chronological order.
func (c *Catalog) AvailableYears() []string {
	return slices.Clone(c.snap.Load().periodLabels)
}

// Periods returns the period groups behind AvailableYears.
func (c *Catalog) Periods() []PeriodGroup {
	return slices.Clone(c.snap.Load().periods)
}

type snapshot struct {
	generation uint64
	items      []content.Episode
	byID       map[string]int

	tags      []string
	tagCounts map[string]int
	models    []string
	origins   []string
	zones     []string
	locales   []string
	regions   []string

	periods      []PeriodGroup
	periodLabels []string

	tagThreshold int

	// year listing, memoized once per snapshot
	yearOnce   sync.Once
	yearGroups []YearGroup
}

func buildSnapshot(gen uint64, items []content.Episode, opts Options) *snapshot {
	s := &snapshot{
		generation:   gen,
		items:        slices.Clone(items),
		byID:         make(map[string]int, len(items)),
		tagCounts:    make(map[string]int),
		tagThreshold: opts.TagThreshold,
	}

	models := make(map[string]struct{})
	origins := make(map[string]struct{})
	zones := make(map[string]struct{})
	locales := make(map[string]struct{})
	regions := make(map[string]struct{})
	yearCounts := make(map[int]int)

	for i := range s.items {
		e := &s.items[i]
		if e.ID != "" {
			if _, dup := s.byID[e.ID]; !dup {
				s.byID[e.ID] = i
			}
		}
		for _, t := range normalizedTags(e) {
			s.tagCounts[t]++
		}
		addValue(models, e.Model)
		addValue(origins, e.Origin)
		addValue(zones, e.Zone)
		addValue(locales, e.Locale)
		addValue(regions, e.Region)
		if e.Date != nil {
			yearCounts[e.Date.Year()]++
		}
	}

	s.tags = sortedKeys(s.tagCounts)
	s.models = sortedKeys(models)
	s.origins = sortedKeys(origins)
	s.zones = sortedKeys(zones)
	s.locales = sortedKeys(locales)
	s.regions = sortedKeys(regions)

	years := make([]YearCount, 0, len(yearCounts))
	for y, n := range yearCounts {
		years = append(years, YearCount{Year: y, Count: n})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })

	s.periods = GroupPeriods(years, opts.PeriodThreshold)
	s.periodLabels = PeriodLabels(s.periods)
	return s
}

// normalizedTags returns the distinct normalized tags of e.
func normalizedTags(e *content.Episode) []string {
	out := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		n := NormalizeTag(t)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func addValue(set map[string]struct{}, v string) {
	if v == "" {
		return
	}
	set[v] = struct{}{}
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
