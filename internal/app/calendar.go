package service

import (
	"context"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/calendar"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/logger"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/metrics"
)

// CalendarQuery is a calendar request as it arrives from a client. Anchor
// is a date-picker value (YYYY-MM-DD); empty means today.
type CalendarQuery struct {
	View     string
	Anchor   string
	Nav      string
	Timezone string
	UserID   string
}

// CalendarView is a rendered calendar page.
type CalendarView struct {
	ChallengeID string            `json:"challenge_id"`
	View        calendar.ViewMode `json:"view"`
	Anchor      datenorm.Date     `json:"anchor"`
	Today       datenorm.Date     `json:"today"`
	Window      datenorm.Range    `json:"window"`
	Weeks       [][]calendar.Day  `json:"weeks"`
	HasPrevious bool              `json:"has_previous"`
	HasNext     bool              `json:"has_next"`
}

// Calendar builds the grid for one challenge after applying the requested
// navigation. Cells are marked with the entries of q.UserID.
func (s *Service) Calendar(ctx context.Context, challengeID string, q CalendarQuery) (CalendarView, error) {
	mode, err := calendar.ParseViewMode(q.View, s.defaultView)
	if err != nil {
		return CalendarView{}, err
	}
	today, err := s.today(q.Timezone)
	if err != nil {
		return CalendarView{}, err
	}
	anchor := today
	if q.Anchor != "" {
		anchor, err = datenorm.ParseCalendarDate(q.Anchor)
		if err != nil {
			metrics.RecordParseError("anchor")
			return CalendarView{}, err
		}
	}

	c, entries, err := s.challengeWithEntries(ctx, challengeID, q.UserID)
	if err != nil {
		return CalendarView{}, err
	}
	if q.UserID == "" {
		entries = nil
	}
	window := c.Window()

	nav := calendar.NewNavigator(window, mode, anchor)
	if err := nav.Go(calendar.Direction(q.Nav), today); err != nil {
		return CalendarView{}, err
	}

	b := calendar.New(window, calendar.WithToday(today))
	grid := b.Grid(nav.Anchor(), mode, entries)
	metrics.RecordCalendarGrid(string(mode), len(grid))

	s.logger.Debug(ctx, "calendar built",
		logger.String("challenge", challengeID),
		logger.String("view", string(mode)),
		logger.Stringer("anchor", nav.Anchor()),
		logger.Int("cells", len(grid)),
	)

	// Step both directions on copies so the reported anchor is unchanged.
	prev := calendar.NewNavigator(window, mode, nav.Anchor())
	next := calendar.NewNavigator(window, mode, nav.Anchor())

	return CalendarView{
		ChallengeID: challengeID,
		View:        nav.Mode(),
		Anchor:      nav.Anchor(),
		Today:       today,
		Window:      window,
		Weeks:       calendar.Weeks(grid),
		HasPrevious: prev.Previous(),
		HasNext:     next.Next(),
	}, nil
}
