package serve

import (
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/calendar"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/catalog"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	domainerr "github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type HealthResponse struct {
	Status     string `json:"status"`
	Episodes   int    `json:"episodes"`
	Generation uint64 `json:"generation"`
}

type EpisodesResponse struct {
	Generation uint64            `json:"generation"`
	Total      int               `json:"total"`
	Episodes   []content.Episode `json:"episodes"`
}

type CalendarResponse struct {
	Input  string `json:"input"`
	Locale string `json:"locale"`
	calendar.Description
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Episodes:   s.cat.Len(),
		Generation: s.cat.Generation(),
	})
}

// CriteriaFromQuery reads the listing filters. Unknown sort keys fall back
// to the default order.
func CriteriaFromQuery(q url.Values) catalog.Criteria {
	search := q.Get("q")
	if search == "" {
		search = q.Get("search")
	}
	return catalog.Criteria{
		Search: search,
		Tag:    q.Get("tag"),
		Model:  q.Get("model"),
		Origin: q.Get("origin"),
		Zone:   q.Get("zone"),
		Locale: q.Get("locale"),
		Region: q.Get("region"),
		Year:   q.Get("year"),
		SortBy: catalog.ParseSortKey(q.Get("sort")),
		Order:  catalog.Order(strings.ToLower(q.Get("order"))),
	}
}

func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	eps := s.cat.FilteredAndSorted(CriteriaFromQuery(q))
	total := len(eps)
	if limit > 0 && limit < total {
		eps = eps[:limit]
	}
	if eps == nil {
		eps = []content.Episode{}
	}
	s.respondJSON(w, http.StatusOK, EpisodesResponse{
		Generation: s.cat.Generation(),
		Total:      total,
		Episodes:   eps,
	})
}

func (s *Server) handleEpisode(w http.ResponseWriter, r *http.Request) {
	view, err := s.views.Episode(pathParam(r, "id"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.views.Years())
}

func (s *Server) handlePeriod(w http.ResponseWriter, r *http.Request) {
	g, err := s.views.Period(pathParam(r, "label"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.views.Tags())
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	g, err := s.views.Tag(pathParam(r, "label"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.views.Facets())
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := strings.TrimSpace(q.Get("date"))
	if input == "" {
		s.respondError(w, http.StatusBadRequest, "date is required")
		return
	}
	locale := q.Get("locale")
	if locale == "" {
		locale = s.cfg.Site.Language
	}

	d, err := calendar.Parse(input)
	if err != nil {
		s.respondErr(w, r, fmt.Errorf("%w: %v", domainerr.ErrInvalid, err))
		return
	}
	s.respondJSON(w, http.StatusOK, CalendarResponse{
		Input:       input,
		Locale:      locale,
		Description: calendar.Describe(d, locale, calendar.Today()),
	})
}

// pathParam returns the decoded URL parameter; chi leaves escapes in place
// when the request carries a raw path.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
