package content

import (
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/calendar"
	"strings"
	"time"
)

// BodyRef points at an episode's markdown. Feed entries carry the markdown
// inline; their SourcePath names the feed entry, not a file.
type BodyRef struct {
	SourcePath  string `json:"source_path,omitempty"`
	FromFeed    bool   `json:"from_feed,omitempty"`
	Inline      string `json:"inline,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
}

type Episode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	// Date is the in-universe date; nil when the source had none or it
	// could not be parsed.
	Date    *calendar.Date `json:"date,omitempty"`
	RawDate string         `json:"raw_date,omitempty"`

	Tags   []string `json:"tags,omitempty"`
	Model  string   `json:"model,omitempty"`
	Origin string   `json:"origin,omitempty"`
	Locale string   `json:"locale,omitempty"`
	Region string   `json:"region,omitempty"`
	Zone   string   `json:"zone,omitempty"`

	PublishedAt time.Time `json:"published_at"`
	Duration    float64   `json:"duration"`
	Integrity   float64   `json:"integrity"`

	Body BodyRef `json:"body"`
}

// SortDate is the date used for ordering: episodes without a date sort as
// calendar.Fallback.
func (e *Episode) SortDate() calendar.Date {
	if e.Date == nil {
		return calendar.Fallback
	}
	return *e.Date
}

func (e *Episode) HasDate() bool {
	return e.Date != nil
}

// Normalize trims free-form fields and drops empty or duplicate tags. Tags
// keep their spelling; comparisons go through the catalog's tag normalizer.
func (e *Episode) Normalize() {
	e.ID = strings.TrimSpace(e.ID)
	e.Title = strings.TrimSpace(e.Title)
	e.Location = strings.TrimSpace(e.Location)
	e.Model = strings.TrimSpace(e.Model)
	e.Origin = strings.TrimSpace(e.Origin)
	e.Locale = strings.TrimSpace(e.Locale)
	e.Region = strings.TrimSpace(e.Region)
	e.Zone = strings.TrimSpace(e.Zone)
	e.Tags = normalizeStrings(e.Tags)
	if e.Duration < 0 {
		e.Duration = 0
	}
}

func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
