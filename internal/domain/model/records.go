package model

import (
	"fmt"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ChallengeRecord is a challenge row as supplied by persistence.
type ChallengeRecord struct {
	ID          string `koanf:"id" validate:"required"`
	Title       string `koanf:"title" validate:"required"`
	Description string `koanf:"description"`
	StartDate   string `koanf:"start_date" validate:"required"`
	EndDate     string `koanf:"end_date" validate:"required"`
	Published   bool   `koanf:"published"`
	Visible     bool   `koanf:"visible"`
}

// EntryRecord is an entry row as supplied by persistence.
type EntryRecord struct {
	ID          string  `koanf:"id" validate:"required"`
	UserID      string  `koanf:"user_id" validate:"required"`
	ChallengeID string  `koanf:"challenge_id" validate:"required"`
	ActivityID  string  `koanf:"activity_id"`
	Date        string  `koanf:"date" validate:"required"`
	Amount      float64 `koanf:"amount" validate:"gte=0"`
	Notes       string  `koanf:"notes" validate:"max=2000"`
}

// UserRecord is a user row as supplied by persistence.
type UserRecord struct {
	ID        string `koanf:"id" validate:"required"`
	FirstName string `koanf:"first_name"`
	LastName  string `koanf:"last_name"`
}

// ToChallenge validates r and resolves its dates to calendar days.
func (r ChallengeRecord) ToChallenge() (Challenge, error) {
	if err := validate.Struct(r); err != nil {
		return Challenge{}, fmt.Errorf("%w: challenge %q: %w", ErrInvalidRecord, r.ID, err)
	}
	start, err := datenorm.ToCalendarDate(r.StartDate)
	if err != nil {
		return Challenge{}, fmt.Errorf("challenge %q start: %w", r.ID, err)
	}
	end, err := datenorm.ToCalendarDate(r.EndDate)
	if err != nil {
		return Challenge{}, fmt.Errorf("challenge %q end: %w", r.ID, err)
	}
	if _, err := datenorm.NewRange(start, end); err != nil {
		return Challenge{}, fmt.Errorf("challenge %q: %w", r.ID, err)
	}
	return Challenge{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
		Published:   r.Published,
		Visible:     r.Visible,
	}, nil
}

// ToEntry validates r and resolves its date to a calendar day.
func (r EntryRecord) ToEntry() (Entry, error) {
	if err := validate.Struct(r); err != nil {
		return Entry{}, fmt.Errorf("%w: entry %q: %w", ErrInvalidRecord, r.ID, err)
	}
	d, err := datenorm.ToCalendarDate(r.Date)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %q date: %w", r.ID, err)
	}
	return Entry{
		ID:          r.ID,
		UserID:      r.UserID,
		ChallengeID: r.ChallengeID,
		ActivityID:  r.ActivityID,
		Date:        d,
		Amount:      r.Amount,
		Notes:       r.Notes,
	}, nil
}

// ToUser validates r.
func (r UserRecord) ToUser() (User, error) {
	if err := validate.Struct(r); err != nil {
		return User{}, fmt.Errorf("%w: user: %w", ErrInvalidRecord, err)
	}
	return User{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName}, nil
}

// ToEntries converts a batch, stopping at the first invalid record.
func ToEntries(records []EntryRecord) ([]Entry, error) {
	out := make([]Entry, 0, len(records))
	for _, r := range records {
		e, err := r.ToEntry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
