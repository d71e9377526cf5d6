// Package dedupe guards the one-entry-per-user-per-challenge-day rule.
package dedupe

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
)

// Deduper records (user, challenge, day) keys that already hold an entry.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

// EntryKey builds the uniqueness key for an entry.
func EntryKey(userID, challengeID string, day datenorm.Date) string {
	return strings.Join([]string{userID, challengeID, day.String()}, "|")
}

// inMemoryDeduper keeps every key; the set must never evict or the
// uniqueness guarantee is lost.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// NewInMemoryDeduper creates an empty deduper.
func NewInMemoryDeduper() Deduper {
	return &inMemoryDeduper{seen: make(map[string]struct{})}
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
