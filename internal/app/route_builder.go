package app

import (
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/site"
	"time"
)

type RouteBuilder struct {
	Views *Views
}

// BuildRoutes lists every document of the export: the overviews first, then
// one route per period, tag bucket and episode.
func (rb *RouteBuilder) BuildRoutes() []site.Route {
	routes := []site.Route{
		site.IndexRoute(),
		site.FacetsRoute(),
		site.YearsRoute(),
		site.TagsRoute(),
	}
	routes = append(routes, rb.BuildPeriodRoutes()...)
	routes = append(routes, rb.BuildTagRoutes()...)
	routes = append(routes, rb.BuildEpisodeRoutes()...)
	return routes
}

func (rb *RouteBuilder) BuildPeriodRoutes() []site.Route {
	var routes []site.Route
	for _, s := range rb.Views.Years() {
		routes = append(routes, site.PeriodRoute(s.Label))
	}
	return routes
}

func (rb *RouteBuilder) BuildTagRoutes() []site.Route {
	var routes []site.Route
	for _, s := range rb.Views.Tags() {
		routes = append(routes, site.TagRoute(s.Label))
	}
	return routes
}

func (rb *RouteBuilder) BuildEpisodeRoutes() []site.Route {
	var routes []site.Route
	for _, e := range rb.Views.Catalog.Episodes() {
		routes = append(routes, site.EpisodeRoute(e.ID))
	}
	return routes
}

// Payload produces the document behind r.
func (rb *RouteBuilder) Payload(r site.Route, now time.Time) (any, error) {
	v := rb.Views
	switch r.Kind {
	case site.RouteIndex:
		return v.Index(now), nil
	case site.RouteFacets:
		return v.Facets(), nil
	case site.RouteYears:
		return v.Years(), nil
	case site.RouteTags:
		return v.Tags(), nil
	case site.RoutePeriod:
		return v.Period(r.Key)
	case site.RouteTag:
		return v.Tag(r.Key)
	case site.RouteEpisode:
		return v.Episode(r.Key)
	default:
		return nil, fmt.Errorf("unknown route kind %q", r.Kind)
	}
}
