// Package leaderboard ranks challenge participants by their summed amounts.
package leaderboard

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// AnonymousName replaces a missing first name.
const AnonymousName = "anonymous"

// Contribution is one entry's share of a user's total.
type Contribution struct {
	UserID    string
	FirstName string
	LastName  string
	Amount    float64
}

// Row is one ranked participant. Rows are recomputed on every request.
type Row struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Amount      float64 `json:"amount"`
}

// DisplayName joins first and last name. A missing first name becomes
// "anonymous"; surrounding whitespace is trimmed.
func DisplayName(first, last string) string {
	first = strings.TrimSpace(first)
	if first == "" {
		first = AnonymousName
	}
	return strings.TrimSpace(first + " " + strings.TrimSpace(last))
}

type tally struct {
	userID string
	name   string
	sum    decimal.Decimal
}

// Aggregate groups contributions by user in one pass, summing amounts and
// keeping the first-seen display name. Rows are ordered by amount
// descending, then by user id ascending, so equal totals rank the same way
// on every call.
func Aggregate(in []Contribution) []Row {
	if len(in) == 0 {
		return []Row{}
	}

	byUser := make(map[string]*tally, len(in))
	order := make([]*tally, 0, len(in))
	for _, c := range in {
		t, ok := byUser[c.UserID]
		if !ok {
			t = &tally{userID: c.UserID, name: DisplayName(c.FirstName, c.LastName)}
			byUser[c.UserID] = t
			order = append(order, t)
		}
		t.sum = t.sum.Add(decimal.NewFromFloat(c.Amount))
	}

	slices.SortFunc(order, func(a, b *tally) int {
		if c := b.sum.Cmp(a.sum); c != 0 {
			return c
		}
		return strings.Compare(a.userID, b.userID)
	})

	rows := make([]Row, len(order))
	for i, t := range order {
		rows[i] = Row{
			Rank:        i + 1,
			UserID:      t.userID,
			DisplayName: t.name,
			Amount:      t.sum.InexactFloat64(),
		}
	}
	return rows
}

// RankOf returns the 1-based position of userID in rows, or ErrNotRanked.
func RankOf(rows []Row, userID string) (int, error) {
	for i, r := range rows {
		if r.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, ErrNotRanked
}

// Top returns at most n rows; n <= 0 returns all of them.
func Top(rows []Row, n int) []Row {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}
