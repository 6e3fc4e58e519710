package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/animeverse/animeverse/internal/apperrors"
	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/metrics"
	"github.com/animeverse/animeverse/internal/models"
)

// Suggester looks up autocomplete suggestions.
type Suggester interface {
	Suggest(ctx context.Context, query string) []models.Suggestion
}

// RecentRecorder remembers submitted queries.
type RecentRecorder interface {
	RecordRecentSearch(ctx context.Context, query string)
}

// SpeechRecognizer produces a spoken query.
type SpeechRecognizer interface {
	// Available reports whether speech input can be used at all.
	Available() bool
	// Transcript returns the first recognized phrase.
	Transcript(ctx context.Context) (string, error)
}

// Search drives the search box: debounced suggestions while typing, the
// Enter path and voice input.
type Search struct {
	client    Suggester
	debouncer *Debouncer
	logger    zerolog.Logger
}

// NewSearch creates a search controller over client.
func NewSearch(client Suggester, debouncer *Debouncer) *Search {
	if debouncer == nil {
		debouncer = NewDebouncer(RealClock(), DefaultDebounce)
	}
	return &Search{
		client:    client,
		debouncer: debouncer,
		logger:    config.GetLogger().With().Str("component", "search").Logger(),
	}
}

// Suggest waits out the quiet period for key, then looks up query. A blank
// query returns no suggestions without a request. When a newer Suggest for
// the same key arrives first, it returns apperrors.ErrSuperseded. Lookups
// already running are not cancelled, so a stale result may still be served.
func (s *Search) Suggest(ctx context.Context, key, query string) ([]models.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if err := s.debouncer.Wait(ctx, key); err != nil {
		if errors.Is(err, apperrors.ErrSuperseded) {
			metrics.SuggestionsSupersededTotal.Inc()
			s.logger.Debug().Str("key", key).Str("query", query).Msg("Suggestion superseded")
		}
		return nil, err
	}

	return s.client.Suggest(ctx, query), nil
}

// Submit is the Enter path. It bypasses the debounce, records a non-blank
// query in the recent searches and returns it trimmed. ok is false for a
// blank query.
func (s *Search) Submit(ctx context.Context, recent RecentRecorder, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}
	if recent != nil {
		recent.RecordRecentSearch(ctx, query)
	}
	return query, true
}

// Voice runs a spoken query through the same lookup as typed input. It
// returns apperrors.ErrVoiceUnavailable when no recognizer is present.
func (s *Search) Voice(ctx context.Context, recognizer SpeechRecognizer) (string, []models.Suggestion, error) {
	if recognizer == nil || !recognizer.Available() {
		return "", nil, apperrors.ErrVoiceUnavailable
	}

	transcript, err := recognizer.Transcript(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("voice transcript: %w", err)
	}
	query := strings.TrimSpace(transcript)
	if query == "" {
		return "", []models.Suggestion{}, nil
	}

	s.logger.Debug().Str("query", query).Msg("Voice query recognized")
	return query, s.client.Suggest(ctx, query), nil
}

// TranscriptRecognizer is a SpeechRecognizer over a transcript produced
// elsewhere, typically by the browser. An empty transcript means speech
// input was not available.
type TranscriptRecognizer string

func (t TranscriptRecognizer) Available() bool {
	return strings.TrimSpace(string(t)) != ""
}

func (t TranscriptRecognizer) Transcript(context.Context) (string, error) {
	if !t.Available() {
		return "", apperrors.ErrVoiceUnavailable
	}
	return string(t), nil
}
