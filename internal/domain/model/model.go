// Package model contains the challenge records passed between layers.
//
// Raw records arrive from persistence with timestamp strings; the To*
// conversions validate them and resolve every date to a calendar day once,
// at the boundary, so the rest of the core only sees datenorm.Date values.
package model

import (
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
)

// Challenge is a time-boxed activity competition.
type Challenge struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	StartDate   datenorm.Date `json:"start_date"`
	EndDate     datenorm.Date `json:"end_date"`
	Published   bool          `json:"published"`
	Visible     bool          `json:"visible"`
}

// Window returns the challenge's inclusive day range.
func (c Challenge) Window() datenorm.Range {
	return datenorm.Range{Start: c.StartDate, End: c.EndDate}
}

// Entry is one user's logged amount for one calendar day of a challenge.
type Entry struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	ChallengeID string        `json:"challenge_id"`
	ActivityID  string        `json:"activity_id,omitempty"`
	Date        datenorm.Date `json:"date"`
	Amount      float64       `json:"amount"`
	Notes       string        `json:"notes,omitempty"`
}

// User is the subset of a member profile the leaderboard needs.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// FirstEntryOn returns the first entry dated d. Duplicate days are tolerated;
// the earliest in slice order wins.
func FirstEntryOn(entries []Entry, d datenorm.Date) (*Entry, bool) {
	for i := range entries {
		if entries[i].Date == d {
			return &entries[i], true
		}
	}
	return nil, false
}

// EntriesByDate indexes entries by day keeping only the first per day.
func EntriesByDate(entries []Entry) map[datenorm.Date]*Entry {
	idx := make(map[datenorm.Date]*Entry, len(entries))
	for i := range entries {
		if _, ok := idx[entries[i].Date]; !ok {
			idx[entries[i].Date] = &entries[i]
		}
	}
	return idx
}
