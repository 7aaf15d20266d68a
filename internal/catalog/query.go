package catalog

import (
	"cmp"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	"golang.org/x/text/cases"
	"slices"
	"sort"
	"strings"
	"time"
)

// MiscTagsLabel names the bucket holding tags below the tag threshold. It is
// also accepted as a Tag filter value.
const MiscTagsLabel = "Misc Tags"

type YearGroup struct {
	Label    string            `json:"label"`
	Episodes []content.Episode `json:"episodes"`
}

type TagGroup struct {
	Label    string            `json:"label"`
	Episodes []content.Episode `json:"episodes"`
}

// EpisodesByYear lists dated episodes per period label, oldest first, skipping
// empty periods. The listing is computed once per ReplaceItems.
func (c *Catalog) EpisodesByYear() []YearGroup {
	s := c.snap.Load()
	s.yearOnce.Do(func() { s.yearGroups = s.buildYearGroups() })

	out := make([]YearGroup, len(s.yearGroups))
	for i, g := range s.yearGroups {
		out[i] = YearGroup{Label: g.Label, Episodes: slices.Clone(g.Episodes)}
	}
	return out
}

func (s *snapshot) buildYearGroups() []YearGroup {
	dated := make([]content.Episode, 0, len(s.items))
	for _, e := range s.items {
		if e.HasDate() {
			dated = append(dated, e)
		}
	}
	sortByDate(dated)

	groups := make([]YearGroup, 0, len(s.periodLabels))
	for _, label := range s.periodLabels {
		start, end, err := ParsePeriodLabel(label)
		if err != nil {
			continue
		}
		var eps []content.Episode
		for _, e := range dated {
			if y := e.Date.Year(); y >= start && y <= end {
				eps = append(eps, e)
			}
		}
		if len(eps) > 0 {
			groups = append(groups, YearGroup{Label: label, Episodes: eps})
		}
	}
	return groups
}

// EpisodesByTag buckets episodes by normalized tag. Buckets smaller than the
// tag threshold are folded into a trailing "Misc Tags" bucket; named buckets
// are ordered by size, largest first, then by name. Episodes inside each
// bucket are sorted by date.
func (c *Catalog) EpisodesByTag() []TagGroup {
	s := c.snap.Load()

	buckets := make(map[string][]int)
	for i := range s.items {
		for _, t := range normalizedTags(&s.items[i]) {
			buckets[t] = append(buckets[t], i)
		}
	}

	var named []TagGroup
	var misc []int
	inMisc := make(map[int]struct{})
	for tag, idxs := range buckets {
		if len(idxs) < s.tagThreshold {
			for _, i := range idxs {
				if _, ok := inMisc[i]; !ok {
					inMisc[i] = struct{}{}
					misc = append(misc, i)
				}
			}
			continue
		}
		named = append(named, TagGroup{Label: tag, Episodes: s.pick(idxs)})
	}
	sort.Slice(named, func(i, j int) bool {
		if len(named[i].Episodes) != len(named[j].Episodes) {
			return len(named[i].Episodes) > len(named[j].Episodes)
		}
		return named[i].Label < named[j].Label
	})

	if len(misc) > 0 {
		sort.Ints(misc)
		named = append(named, TagGroup{Label: MiscTagsLabel, Episodes: s.pick(misc)})
	}
	return named
}

func (s *snapshot) pick(idxs []int) []content.Episode {
	out := make([]content.Episode, len(idxs))
	for i, idx := range idxs {
		out[i] = s.items[idx]
	}
	sortByDate(out)
	return out
}

// isMisc reports whether e carries at least one tag too rare for a named
// bucket.
func (s *snapshot) isMisc(e *content.Episode) bool {
	for _, t := range normalizedTags(e) {
		if s.tagCounts[t] < s.tagThreshold {
			return true
		}
	}
	return false
}

type SortKey string

const (
	SortPublished SortKey = "published"
	SortDate      SortKey = "date"
	SortTitle     SortKey = "title"
	SortDuration  SortKey = "duration"
	SortIntegrity SortKey = "integrity"
)

// ParseSortKey accepts the sort names used by clients; unknown names fall
// back to SortPublished.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date":
		return SortDate
	case "title":
		return SortTitle
	case "duration":
		return SortDuration
	case "integrity":
		return SortIntegrity
	default:
		return SortPublished
	}
}

type Order string

const (
	Desc Order = "desc"
	Asc  Order = "asc"
)

// Criteria selects and orders episodes. Empty fields do not constrain.
type Criteria struct {
	Search string
	Tag    string
	Model  string
	Origin string
	Zone   string
	Locale string
	Region string
	// Year is a period label such as "1971", "135000 BCE" or "1-3";
	// AllYears or "" disables the year filter.
	Year   string
	SortBy SortKey
	Order  Order
}

func (c Criteria) normalized() Criteria {
	c.Search = strings.TrimSpace(c.Search)
	c.Tag = strings.TrimSpace(c.Tag)
	c.Year = strings.TrimSpace(c.Year)
	if c.Year == AllYears {
		c.Year = ""
	}
	c.SortBy = ParseSortKey(string(c.SortBy))
	if c.Order != Asc {
		c.Order = Desc
	}
	return c
}

// FilteredAndSorted applies every filter in one pass and then stable-sorts
// by the requested key, newest first unless Order is Asc.
func (c *Catalog) FilteredAndSorted(crit Criteria) []content.Episode {
	crit = crit.normalized()
	s := c.snap.Load()

	key := queryKey{generation: s.generation, criteria: crit}
	if c.queries != nil {
		if hit, ok := c.queries.Get(key); ok {
			return slices.Clone(hit)
		}
	}

	out := s.filter(crit)
	sortEpisodes(out, crit.SortBy, crit.Order)

	if c.queries != nil {
		c.queries.Add(key, slices.Clone(out))
	}
	return out
}

func (s *snapshot) filter(crit Criteria) []content.Episode {
	var (
		yearSet    bool
		start, end int
	)
	if crit.Year != "" {
		var err error
		start, end, err = ParsePeriodLabel(crit.Year)
		if err != nil {
			return []content.Episode{}
		}
		yearSet = true
	}

	fold := cases.Fold()
	needle := fold.String(crit.Search)
	wantTag := ""
	if crit.Tag != "" && crit.Tag != MiscTagsLabel {
		wantTag = NormalizeTag(crit.Tag)
	}

	out := make([]content.Episode, 0, len(s.items))
	for i := range s.items {
		e := &s.items[i]
		if needle != "" && !matchesSearch(e, needle, fold) {
			continue
		}
		switch {
		case crit.Tag == MiscTagsLabel:
			if !s.isMisc(e) {
				continue
			}
		case wantTag != "":
			if !slices.Contains(normalizedTags(e), wantTag) {
				continue
			}
		}
		if !matchExact(crit.Model, e.Model) ||
			!matchExact(crit.Origin, e.Origin) ||
			!matchExact(crit.Zone, e.Zone) ||
			!matchExact(crit.Locale, e.Locale) ||
			!matchExact(crit.Region, e.Region) {
			continue
		}
		if yearSet {
			if e.Date == nil {
				continue
			}
			if y := e.Date.Year(); y < start || y > end {
				continue
			}
		}
		out = append(out, *e)
	}
	return out
}

func matchesSearch(e *content.Episode, needle string, fold cases.Caser) bool {
	for _, hay := range []string{e.Title, e.Description, e.Location} {
		if strings.Contains(fold.String(hay), needle) {
			return true
		}
	}
	for _, t := range normalizedTags(e) {
		if strings.Contains(t, needle) {
			return true
		}
	}
	return false
}

func matchExact(want, got string) bool {
	return want == "" || want == got
}

var epoch = time.Unix(0, 0).UTC()

func sortEpisodes(eps []content.Episode, key SortKey, order Order) {
	var compare func(a, b *content.Episode) int
	switch key {
	case SortDate:
		compare = func(a, b *content.Episode) int { return a.SortDate().Compare(b.SortDate()) }
	case SortTitle:
		compare = func(a, b *content.Episode) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortDuration:
		compare = func(a, b *content.Episode) int { return cmp.Compare(a.Duration, b.Duration) }
	case SortIntegrity:
		compare = func(a, b *content.Episode) int { return cmp.Compare(a.Integrity, b.Integrity) }
	default:
		compare = func(a, b *content.Episode) int {
			return publishedOrEpoch(a).Compare(publishedOrEpoch(b))
		}
	}
	slices.SortStableFunc(eps, func(a, b content.Episode) int {
		if order == Asc {
			return compare(&a, &b)
		}
		return compare(&b, &a)
	})
}

func publishedOrEpoch(e *content.Episode) time.Time {
	if e.PublishedAt.IsZero() {
		return epoch
	}
	return e.PublishedAt
}

func sortByDate(eps []content.Episode) {
	sortEpisodes(eps, SortDate, Asc)
}
