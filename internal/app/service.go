// Package service wires the challenge domain to a Store and implements the
// dependencies required by the HTTP API. Every call reads the store and
// derives grids, day tables and leaderboards fresh; nothing is cached.
package service

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // viewer zones resolve without system zoneinfo

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/adapters/repository"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/calendar"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/logger"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/metrics"
)

const defaultMaxLeaderboard = 100

// Service implements the API dependencies for challenge tracking.
type Service struct {
	store          repository.Store
	logger         logger.Logger
	now            func() time.Time
	defaultView    calendar.ViewMode
	location       *time.Location
	maxLeaderboard int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the wall clock used to decide "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultView sets the calendar view used when a query names none.
func WithDefaultView(mode calendar.ViewMode) Option {
	return func(s *Service) {
		if mode == calendar.ViewWeek || mode == calendar.ViewMonth {
			s.defaultView = mode
		}
	}
}

// WithLocation sets the viewer time zone used when a query names none.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithMaxLeaderboard caps how many leaderboard rows one call returns.
func WithMaxLeaderboard(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLeaderboard = n
		}
	}
}

// New constructs a Service. Without WithStore it runs on an empty
// MemoryStore.
func New(opts ...Option) *Service {
	s := &Service{
		logger:         logger.Nop(),
		now:            time.Now,
		defaultView:    calendar.ViewMonth,
		location:       time.UTC,
		maxLeaderboard: defaultMaxLeaderboard,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithLogger(s.logger))
	}
	return s
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

// Challenges lists published challenges ordered by start date.
func (s *Service) Challenges(ctx context.Context) ([]model.Challenge, error) {
	all, err := s.store.Challenges(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Challenge, 0, len(all))
	for _, c := range all {
		if c.Published {
			out = append(out, c)
		}
	}
	metrics.UpdateChallengesTotal(len(out))
	return out, nil
}

// today resolves the viewer's current calendar day. An empty tz selects the
// service location.
func (s *Service) today(tz string) (datenorm.Date, error) {
	loc := s.location
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return datenorm.Date{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
		}
		loc = l
	}
	return datenorm.Today(s.now(), loc), nil
}

// challengeWithEntries loads a challenge and its entries, optionally only
// those of userID.
func (s *Service) challengeWithEntries(ctx context.Context, challengeID, userID string) (model.Challenge, []model.Entry, error) {
	c, err := s.store.Challenge(ctx, challengeID)
	if err != nil {
		return model.Challenge{}, nil, err
	}
	entries, err := s.store.Entries(ctx, challengeID)
	if err != nil {
		return model.Challenge{}, nil, err
	}
	if userID == "" {
		return c, entries, nil
	}
	mine := entries[:0:0]
	for _, e := range entries {
		if e.UserID == userID {
			mine = append(mine, e)
		}
	}
	return c, mine, nil
}
