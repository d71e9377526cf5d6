package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/adapters/repository"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/dayrange"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/logger"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/metrics"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// EntryInput is an entry submitted from the log form. Date is the raw
// date-picker value.
type EntryInput struct {
	UserID     string  `json:"user_id" validate:"required"`
	ActivityID string  `json:"activity_id"`
	Date       string  `json:"date" validate:"required"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	Notes      string  `json:"notes" validate:"max=2000"`
}

// DayTable lists every day of a challenge with one user's entries.
type DayTable struct {
	ChallengeID string         `json:"challenge_id"`
	UserID      string         `json:"user_id"`
	Days        []dayrange.Row `json:"days"`
	Total       float64        `json:"total"`
}

// Days expands the challenge into numbered days matched to userID's entries.
func (s *Service) Days(ctx context.Context, challengeID, userID string) (DayTable, error) {
	if userID == "" {
		return DayTable{}, ErrUserRequired
	}
	c, entries, err := s.challengeWithEntries(ctx, challengeID, userID)
	if err != nil {
		return DayTable{}, err
	}
	days, err := dayrange.Expand(c.StartDate, c.EndDate)
	if err != nil {
		return DayTable{}, err
	}
	rows := dayrange.Match(days, entries)
	metrics.RecordDayTable()
	return DayTable{
		ChallengeID: challengeID,
		UserID:      userID,
		Days:        rows,
		Total:       dayrange.Total(rows),
	}, nil
}

// LogEntry records in for challengeID. The picker date is sent through the
// server encoding and read back, the same path a stored row takes, so the
// logged day is the day the user picked.
func (s *Service) LogEntry(ctx context.Context, challengeID string, in EntryInput) (model.Entry, error) {
	if err := validate.Struct(in); err != nil {
		return model.Entry{}, fmt.Errorf("%w: %w", ErrInvalidEntryInput, err)
	}
	stamp, err := datenorm.ToServerDate(in.Date)
	if err != nil {
		metrics.RecordParseError("entry_date")
		return model.Entry{}, err
	}
	day, err := datenorm.ToCalendarDate(stamp)
	if err != nil {
		metrics.RecordParseError("entry_date")
		return model.Entry{}, err
	}

	c, err := s.store.Challenge(ctx, challengeID)
	if err != nil {
		return model.Entry{}, err
	}
	if !c.Window().Contains(day) {
		return model.Entry{}, fmt.Errorf("%w: %s not in %s..%s", ErrOutsideChallenge, day, c.StartDate, c.EndDate)
	}

	e, err := s.store.CreateEntry(ctx, model.Entry{
		UserID:      in.UserID,
		ChallengeID: challengeID,
		ActivityID:  in.ActivityID,
		Date:        day,
		Amount:      in.Amount,
		Notes:       in.Notes,
	})
	if errors.Is(err, repository.ErrDuplicateEntry) {
		metrics.RecordEntryDuplicate()
		return model.Entry{}, err
	}
	if err != nil {
		return model.Entry{}, err
	}

	metrics.RecordEntryCreated()
	s.logger.Info(ctx, "entry logged",
		logger.String("challenge", challengeID),
		logger.String("user", e.UserID),
		logger.Stringer("date", e.Date),
		logger.Float64("amount", e.Amount),
	)
	return e, nil
}
