package site

import (
	"path"
	"strings"
)

type RouteKind string

const (
	RouteIndex   RouteKind = "index"
	RouteFacets  RouteKind = "facets"
	RouteYears   RouteKind = "years"
	RoutePeriod  RouteKind = "period"
	RouteTags    RouteKind = "tags"
	RouteTag     RouteKind = "tag"
	RouteEpisode RouteKind = "episode"
)

// Route is one exported JSON document. Key is the episode ID, period label or
// tag bucket label the document is about.
type Route struct {
	Kind    RouteKind
	Key     string
	OutPath string
}

func (r Route) String() string {
	parts := []string{string(r.Kind)}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

func IndexRoute() Route  { return Route{Kind: RouteIndex, OutPath: "index.json"} }
func FacetsRoute() Route { return Route{Kind: RouteFacets, OutPath: "facets.json"} }
func YearsRoute() Route  { return Route{Kind: RouteYears, OutPath: path.Join("years", "index.json")} }
func TagsRoute() Route   { return Route{Kind: RouteTags, OutPath: path.Join("tags", "index.json")} }

func EpisodeRoute(id string) Route {
	return Route{Kind: RouteEpisode, Key: id, OutPath: path.Join("episodes", SafeSegment(id)+".json")}
}

func PeriodRoute(label string) Route {
	return Route{Kind: RoutePeriod, Key: label, OutPath: path.Join("years", SafeSegment(label)+".json")}
}

func TagRoute(label string) Route {
	return Route{Kind: RouteTag, Key: label, OutPath: path.Join("tags", SafeSegment(label)+".json")}
}

// SafeSegment maps s to a single path segment of [A-Za-z0-9_-]. Every other
// rune becomes '-'.
func SafeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	repl := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}
	return strings.Map(repl, s)
}
