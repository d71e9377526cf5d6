package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/dedupe"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/logger"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/metrics"
	"github.com/google/uuid"
)

// MemoryStore keeps every record in process memory. It backs development
// runs and tests; PostgresStore is the production backend.
type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[string]model.Challenge
	entries    map[string][]model.Entry // by challenge id, in log order
	users      map[string]model.User
	closed     bool

	deduper dedupe.Deduper
	newID   func() string
	logger  logger.Logger
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		challenges: make(map[string]model.Challenge),
		entries:    make(map[string][]model.Entry),
		users:      make(map[string]model.User),
		deduper:    dedupe.NewInMemoryDeduper(),
		newID:      uuid.NewString,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutChallenge inserts or replaces a challenge.
func (s *MemoryStore) PutChallenge(c model.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.newID()
	}
	s.challenges[c.ID] = c
}

// PutUser inserts or replaces a user.
func (s *MemoryStore) PutUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutEntry appends an entry without the uniqueness check, the way rows
// already in a database arrive regardless of how they got there.
func (s *MemoryStore) PutEntry(e model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = s.newID()
	}
	s.deduper.SeenAndRecord(context.Background(), dedupe.EntryKey(e.UserID, e.ChallengeID, e.Date))
	s.entries[e.ChallengeID] = append(s.entries[e.ChallengeID], e)
}

// Challenge implements Store.
func (s *MemoryStore) Challenge(_ context.Context, id string) (model.Challenge, error) {
	defer observe("challenge", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Challenge{}, ErrClosed
	}
	c, ok := s.challenges[id]
	if !ok {
		return model.Challenge{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c, nil
}

// Challenges implements Store.
func (s *MemoryStore) Challenges(_ context.Context) ([]model.Challenge, error) {
	defer observe("challenges", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]model.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b model.Challenge) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Entries implements Store.
func (s *MemoryStore) Entries(_ context.Context, challengeID string) ([]model.Entry, error) {
	defer observe("entries", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return slices.Clone(s.entries[challengeID]), nil
}

// Users implements Store.
func (s *MemoryStore) Users(_ context.Context, ids []string) (map[string]model.User, error) {
	defer observe("users", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make(map[string]model.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// CreateEntry implements Store.
func (s *MemoryStore) CreateEntry(ctx context.Context, e model.Entry) (model.Entry, error) {
	defer observe("create_entry", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Entry{}, ErrClosed
	}
	if _, ok := s.challenges[e.ChallengeID]; !ok {
		return model.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, e.ChallengeID)
	}

	key := dedupe.EntryKey(e.UserID, e.ChallengeID, e.Date)
	if s.deduper.SeenAndRecord(ctx, key) {
		s.logger.Debug(ctx, "duplicate entry rejected",
			logger.String("key", key),
			logger.Int("tracked_keys", int(s.deduper.Size())),
		)
		return model.Entry{}, ErrDuplicateEntry
	}
	if e.ID == "" {
		e.ID = s.newID()
	}
	s.entries[e.ChallengeID] = append(s.entries[e.ChallengeID], e)
	return e, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}

