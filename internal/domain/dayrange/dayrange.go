// Package dayrange expands a challenge window into its numbered days.
package dayrange

import (
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
	"github.com/shopspring/decimal"
)

// ChallengeDay is one numbered day of a challenge, starting at 1.
type ChallengeDay struct {
	Number int           `json:"day_number"`
	Date   datenorm.Date `json:"date"`
}

// Row pairs a challenge day with the entry logged on it, if any.
type Row struct {
	ChallengeDay
	Entry *model.Entry `json:"entry,omitempty"`
}

// Expand lists every day from start through end inclusive. The result has
// exactly DaysBetween(start, end) elements. An end before start is an
// InvalidRangeError rather than an empty table.
func Expand(start, end datenorm.Date) ([]ChallengeDay, error) {
	if _, err := datenorm.NewRange(start, end); err != nil {
		return nil, err
	}
	n := datenorm.DaysBetween(start, end)
	days := make([]ChallengeDay, n)
	for i := range days {
		days[i] = ChallengeDay{Number: i + 1, Date: start.AddDays(i)}
	}
	return days, nil
}

// Match attaches entries to days by calendar date. When several entries
// share a day the first in slice order wins.
func Match(days []ChallengeDay, entries []model.Entry) []Row {
	byDate := model.EntriesByDate(entries)
	rows := make([]Row, len(days))
	for i, d := range days {
		rows[i] = Row{ChallengeDay: d, Entry: byDate[d.Date]}
	}
	return rows
}

// Total sums the matched amounts of rows.
func Total(rows []Row) float64 {
	sum := decimal.Zero
	for _, r := range rows {
		if r.Entry != nil {
			sum = sum.Add(decimal.NewFromFloat(r.Entry.Amount))
		}
	}
	return sum.InexactFloat64()
}
