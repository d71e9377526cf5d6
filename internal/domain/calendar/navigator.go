package calendar

import (
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
)

// Direction is a navigation request from the calendar header.
type Direction string

// Navigation directions.
const (
	NavNone     Direction = ""
	NavPrevious Direction = "previous"
	NavNext     Direction = "next"
	NavToday    Direction = "today"
)

// Navigator moves a view anchor by whole months or weeks without leaving
// the challenge window. Moves whose target period shares no day with the
// window leave the anchor unchanged.
type Navigator struct {
	window datenorm.Range
	mode   ViewMode
	anchor datenorm.Date
}

// NewNavigator starts at anchor, clamped into window.
func NewNavigator(window datenorm.Range, mode ViewMode, anchor datenorm.Date) *Navigator {
	return &Navigator{window: window, mode: mode, anchor: window.Clamp(anchor)}
}

// Anchor returns the current view anchor.
func (n *Navigator) Anchor() datenorm.Date { return n.anchor }

// Mode returns the view mode the navigator steps by.
func (n *Navigator) Mode() ViewMode { return n.mode }

// Previous steps back one period. It reports whether the anchor moved.
func (n *Navigator) Previous() bool { return n.step(-1) }

// Next steps forward one period. It reports whether the anchor moved.
func (n *Navigator) Next() bool { return n.step(1) }

// Today jumps to today, clamped into the window.
func (n *Navigator) Today(today datenorm.Date) {
	n.anchor = n.window.Clamp(today)
}

// Go applies dir; today is only used for NavToday.
func (n *Navigator) Go(dir Direction, today datenorm.Date) error {
	switch dir {
	case NavNone:
	case NavPrevious:
		n.Previous()
	case NavNext:
		n.Next()
	case NavToday:
		n.Today(today)
	default:
		return ErrInvalidDirection
	}
	return nil
}

func (n *Navigator) step(delta int) bool {
	var target datenorm.Date
	if n.mode == ViewWeek {
		target = n.anchor.AddDays(delta * daysPerWeek)
	} else {
		target = n.anchor.AddMonths(delta)
	}

	from, to := periodBounds(target, n.mode)
	if !n.window.Overlaps(from, to) {
		return false
	}
	n.anchor = target
	return true
}

// periodBounds is the month or week itself, without the grid padding.
func periodBounds(d datenorm.Date, mode ViewMode) (datenorm.Date, datenorm.Date) {
	if mode == ViewWeek {
		return d.StartOfWeek(), d.EndOfWeek()
	}
	return d.FirstOfMonth(), d.LastOfMonth()
}
