// Package prefs keeps the per-visitor preferences of the front-end: the
// favorites set, the recent searches list and the colour theme.
//
// Values are JSON-encoded and persisted in a storage.Store under a key scoped
// to the visitor. Reads never fail: a missing or corrupt value reads as the
// empty default. Writes are read-modify-write without locking, last write wins.
package prefs

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/storage"
)

// Storage keys, one value per visitor.
const (
	FavoritesKey      = "animeverse_favs"
	RecentSearchesKey = "recent-searches"
	ThemeKey          = "animeverse-theme"
)

// MaxRecentSearches bounds the recent searches list.
const MaxRecentSearches = 5

// Colour themes. Dark is the default.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Store is the preference view of a single visitor.
type Store struct {
	kv      storage.Store
	visitor string
	logger  zerolog.Logger
}

// New returns the preferences of visitorID backed by kv.
func New(kv storage.Store, visitorID string) *Store {
	return &Store{
		kv:      kv,
		visitor: visitorID,
		logger:  config.GetLogger().With().Str("visitor", visitorID).Logger(),
	}
}

// Visitor returns the visitor id the store is scoped to.
func (s *Store) Visitor() string {
	return s.visitor
}

func (s *Store) key(name string) string {
	return "visitor:" + s.visitor + ":" + name
}

// IsFavorite reports whether id is in the favorites set.
func (s *Store) IsFavorite(ctx context.Context, id int) bool {
	return lo.Contains(s.Favorites(ctx), id)
}

// ToggleFavorite flips the membership of id, persists the whole set and
// returns the new state.
func (s *Store) ToggleFavorite(ctx context.Context, id int) bool {
	favs := s.Favorites(ctx)
	exists := lo.Contains(favs, id)
	if exists {
		favs = lo.Without(favs, id)
	} else {
		favs = append(favs, id)
	}
	s.write(ctx, FavoritesKey, favs)
	return !exists
}

// RemoveFavorite drops id from the favorites set. Removing an absent id is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, id int) {
	favs := s.Favorites(ctx)
	if !lo.Contains(favs, id) {
		return
	}
	s.write(ctx, FavoritesKey, lo.Without(favs, id))
}

// Favorites returns the favorite ids in insertion order.
func (s *Store) Favorites(ctx context.Context) []int {
	return readList[int](ctx, s, FavoritesKey)
}

// RecordRecentSearch moves query to the front of the recent searches list,
// dropping older duplicates and anything past MaxRecentSearches. Blank
// queries are ignored.
func (s *Store) RecordRecentSearch(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	recent := append([]string{query}, lo.Without(s.RecentSearches(ctx), query)...)
	s.write(ctx, RecentSearchesKey, lo.Slice(recent, 0, MaxRecentSearches))
}

// RecentSearches returns the recent queries, most recent first.
func (s *Store) RecentSearches(ctx context.Context) []string {
	return readList[string](ctx, s, RecentSearchesKey)
}

// Theme returns the saved theme, or ThemeDark when none is saved.
func (s *Store) Theme(ctx context.Context) string {
	raw, ok := s.kv.Get(ctx, s.key(ThemeKey))
	if ok && string(raw) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// ToggleTheme switches between light and dark, persists and returns the new theme.
func (s *Store) ToggleTheme(ctx context.Context) string {
	next := ThemeLight
	if s.Theme(ctx) == ThemeLight {
		next = ThemeDark
	}
	if err := s.kv.Set(ctx, s.key(ThemeKey), []byte(next)); err != nil {
		s.logger.Error().Err(err).Str("key", ThemeKey).Msg("Failed to save preference")
	}
	return next
}

func readList[T any](ctx context.Context, s *Store, name string) []T {
	raw, ok := s.kv.Get(ctx, s.key(name))
	if !ok || len(raw) == 0 {
		return []T{}
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Warn().Err(err).Str("key", name).Msg("Corrupt preference value, treating as empty")
		return []T{}
	}
	if list == nil {
		return []T{}
	}
	return list
}

func (s *Store) write(ctx context.Context, name string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().Err(err).Str("key", name).Msg("Failed to encode preference")
		return
	}
	if err := s.kv.Set(ctx, s.key(name), raw); err != nil {
		s.logger.Error().Err(err).Str("key", name).Msg("Failed to save preference")
	}
}
