// Package repository adapts persistence backends to the records the
// challenge core consumes.
package repository

import (
	"context"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
)

// Store provides read access to challenges, entries and users, plus the
// single write the service performs: logging an entry.
type Store interface {
	// Challenge returns one challenge or ErrNotFound.
	Challenge(ctx context.Context, id string) (model.Challenge, error)

	// Challenges returns every challenge ordered by start date.
	Challenges(ctx context.Context) ([]model.Challenge, error)

	// Entries returns a challenge's entries in the order they were logged.
	Entries(ctx context.Context, challengeID string) ([]model.Entry, error)

	// Users resolves profiles by id. Unknown ids are absent from the map.
	Users(ctx context.Context, ids []string) (map[string]model.User, error)

	// CreateEntry stores e, assigning an ID when empty. A second entry for
	// the same (user, challenge, day) returns ErrDuplicateEntry.
	CreateEntry(ctx context.Context, e model.Entry) (model.Entry, error)

	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
