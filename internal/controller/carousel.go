package controller

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/models"
	"github.com/animeverse/animeverse/internal/render"
)

const (
	// DefaultSlides is the number of trending records shown by the carousel.
	DefaultSlides = 15

	// DefaultAutoplay is the interval between automatic slide advances.
	DefaultAutoplay = 4500 * time.Millisecond

	maxCursors = 10000
	cursorTTL  = time.Hour
)

// TrendingSource supplies the carousel slides.
type TrendingSource interface {
	Trending(ctx context.Context, limit int) []models.Anime
}

// CarouselState is the lifecycle state of a Carousel.
type CarouselState int

const (
	// CarouselIdle has no slides yet, either before Load or after a failed one.
	CarouselIdle CarouselState = iota
	// CarouselLoaded holds slides and autoplays until stopped.
	CarouselLoaded
)

func (s CarouselState) String() string {
	if s == CarouselLoaded {
		return "loaded"
	}
	return "idle"
}

// cursor is where a visitor's autoplay restarted: slide index at time since.
type cursor struct {
	index int
	since time.Time
}

// Carousel is the hero slider. The slides are shared by every visitor, the
// position is not: each visitor advances one slide per interval from the
// last slide they jumped to, or from the load time if they never did.
// Positions are derived from the clock, so autoplay needs no timers.
type Carousel struct {
	mu       sync.Mutex
	source   TrendingSource
	clock    Clock
	size     int
	interval time.Duration
	logger   zerolog.Logger

	slides    []models.Anime
	loadedAt  time.Time
	stoppedAt time.Time
	cursors   *lru.LRU[string, cursor]
}

// NewCarousel creates an idle carousel showing up to size slides.
func NewCarousel(source TrendingSource, clock Clock, size int, interval time.Duration) *Carousel {
	if clock == nil {
		clock = RealClock()
	}
	if size <= 0 {
		size = DefaultSlides
	}
	if interval <= 0 {
		interval = DefaultAutoplay
	}
	return &Carousel{
		source:   source,
		clock:    clock,
		size:     size,
		interval: interval,
		logger:   config.GetLogger().With().Str("component", "carousel").Logger(),
		cursors:  lru.NewLRU[string, cursor](maxCursors, nil, cursorTTL),
	}
}

// Load fetches the trending slides and starts autoplay. An empty result
// leaves the carousel idle so a later Load can try again. Loading an already
// loaded carousel is a no-op.
func (c *Carousel) Load(ctx context.Context) CarouselState {
	c.mu.Lock()
	if len(c.slides) > 0 || c.stoppedLocked() {
		state := c.stateLocked()
		c.mu.Unlock()
		return state
	}
	c.mu.Unlock()

	slides := c.source.Trending(ctx, c.size)
	if len(slides) == 0 {
		c.logger.Warn().Int("slides", c.size).Msg("Carousel init failed, no trending records")
		return CarouselIdle
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.slides) > 0 || c.stoppedLocked() {
		return c.stateLocked()
	}
	c.slides = slides
	c.loadedAt = c.clock.Now()
	c.logger.Debug().Int("slides", len(slides)).Msg("Carousel loaded")
	return CarouselLoaded
}

// State reports whether slides are loaded.
func (c *Carousel) State() CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Carousel) stateLocked() CarouselState {
	if len(c.slides) == 0 {
		return CarouselIdle
	}
	return CarouselLoaded
}

func (c *Carousel) stoppedLocked() bool {
	return !c.stoppedAt.IsZero()
}

// GoTo moves visitor to slide i, wrapping in both directions, and restarts
// their autoplay interval. It returns the new index and false when the
// carousel is idle.
func (c *Carousel) GoTo(visitor string, i int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.slides)
	if n == 0 {
		return 0, false
	}
	index := ((i % n) + n) % n
	c.cursors.Add(visitor, cursor{index: index, since: c.nowLocked()})
	return index, true
}

// Snapshot returns the slides and visitor's current index for rendering.
func (c *Carousel) Snapshot(visitor string) render.CarouselView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.CarouselView{
		Slides:   c.slides,
		Index:    c.indexLocked(visitor),
		Interval: c.interval,
	}
}

// Stop freezes autoplay for good. Positions stay where they were.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stoppedLocked() {
		c.stoppedAt = c.clock.Now()
	}
}

func (c *Carousel) nowLocked() time.Time {
	if c.stoppedLocked() {
		return c.stoppedAt
	}
	return c.clock.Now()
}

func (c *Carousel) indexLocked(visitor string) int {
	n := len(c.slides)
	if n == 0 {
		return 0
	}
	start := cursor{since: c.loadedAt}
	if cur, ok := c.cursors.Get(visitor); ok {
		start = cur
	}
	steps := 0
	if elapsed := c.nowLocked().Sub(start.since); elapsed > 0 {
		steps = int(elapsed / c.interval)
	}
	return (start.index + steps%n) % n
}
