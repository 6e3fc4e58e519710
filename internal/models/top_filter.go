package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TopFilter selects one of the Jikan top-anime rankings
type TopFilter int

const (
	TopByPopularity TopFilter = iota
	TopAiring
	TopUpcoming
	TopFavorite
)

// String returns the Jikan query value for the filter
func (f TopFilter) String() string {
	switch f {
	case TopAiring:
		return "airing"
	case TopUpcoming:
		return "upcoming"
	case TopFavorite:
		return "favorite"
	default:
		return "bypopularity"
	}
}

// Label returns a human readable heading, e.g. "By Popularity"
func (f TopFilter) Label() string {
	words := f.String()
	if f == TopByPopularity {
		words = "by popularity"
	}
	// Casers are stateful, so one is built per call.
	return cases.Title(language.English).String(words)
}

// ParseTopFilter converts a query value to a TopFilter; unknown values map to TopByPopularity
func ParseTopFilter(s string) TopFilter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "airing":
		return TopAiring
	case "upcoming":
		return TopUpcoming
	case "favorite":
		return TopFavorite
	default:
		return TopByPopularity
	}
}

// TopFilters lists every ranking in navigation order
func TopFilters() []TopFilter {
	return []TopFilter{TopByPopularity, TopAiring, TopUpcoming, TopFavorite}
}
