// Package calendar builds the week and month day grids shown for a challenge.
package calendar

import (
	"fmt"
	"strings"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
)

const daysPerWeek = 7

// ViewMode selects the grid shape.
type ViewMode string

// Supported view modes.
const (
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ParseViewMode maps a query value to a ViewMode. Empty selects def.
func ParseViewMode(s string, def ViewMode) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewMonth:
		return ViewMonth, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
	}
}

// Day is one rendered grid cell. Cells are built fresh per request.
type Day struct {
	Date     datenorm.Date `json:"date"`
	InMonth  bool          `json:"in_month"`
	IsToday  bool          `json:"is_today"`
	HasEntry bool          `json:"has_entry"`
	Disabled bool          `json:"disabled"`
	Entry    *model.Entry  `json:"entry,omitempty"`
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithToday marks the viewer's current day in built grids.
func WithToday(today datenorm.Date) Option {
	return func(b *Builder) {
		b.today = today
	}
}

// Builder produces grids for one challenge window.
type Builder struct {
	window datenorm.Range
	today  datenorm.Date
}

// New creates a Builder for window.
func New(window datenorm.Range, opts ...Option) *Builder {
	b := &Builder{window: window}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bounds returns the first and last day of the grid for anchor in mode.
// Month grids are padded to whole Sunday-Saturday weeks.
func Bounds(anchor datenorm.Date, mode ViewMode) (datenorm.Date, datenorm.Date) {
	if mode == ViewWeek {
		return anchor.StartOfWeek(), anchor.EndOfWeek()
	}
	return anchor.FirstOfMonth().StartOfWeek(), anchor.LastOfMonth().EndOfWeek()
}

// Grid returns the cells for anchor in mode. Its length is always a
// multiple of seven. A day is flagged HasEntry when any entry falls on it;
// the first such entry is attached.
func (b *Builder) Grid(anchor datenorm.Date, mode ViewMode, entries []model.Entry) []Day {
	first, last := Bounds(anchor, mode)
	byDate := model.EntriesByDate(entries)

	n := datenorm.DaysBetween(first, last)
	grid := make([]Day, 0, n)
	for d := first; !d.After(last); d = d.AddDays(1) {
		cell := Day{
			Date:     d,
			InMonth:  d.SameMonth(anchor),
			IsToday:  !b.today.IsZero() && d == b.today,
			Disabled: !b.window.Contains(d),
		}
		if e, ok := byDate[d]; ok {
			cell.HasEntry = true
			cell.Entry = e
		}
		grid = append(grid, cell)
	}
	return grid
}

// Selectable reports whether d lies inside the challenge window.
func (b *Builder) Selectable(d datenorm.Date) bool {
	return b.window.Contains(d)
}

// Weeks splits a grid into rows of seven.
func Weeks(grid []Day) [][]Day {
	rows := make([][]Day, 0, len(grid)/daysPerWeek)
	for i := 0; i+daysPerWeek <= len(grid); i += daysPerWeek {
		rows = append(rows, grid[i:i+daysPerWeek])
	}
	return rows
}
