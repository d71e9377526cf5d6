package datenorm

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ServerMidnightSuffix is appended to picker dates so they can be stored as
// if they were UTC instants.
const ServerMidnightSuffix = "T00:00:00.000Z"

// utcMarkers are stripped from the end of server timestamps, longest first.
var utcMarkers = []string{"+00:00", "+0000", " UTC", "Z", "z"}

// naiveLayouts are tried in order once the zone marker is gone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	dateLayout,
}

// ToCalendarDate reads a server timestamp as the calendar day it was meant
// to record. The UTC marker is discarded before parsing, so
// "2024-03-05T00:00:00Z" is March 5th for every viewer.
func ToCalendarDate(serverTimestamp string) (Date, error) {
	s := strings.TrimSpace(serverTimestamp)
	if s == "" {
		return Date{}, parseError(serverTimestamp, "empty timestamp")
	}
	for _, marker := range utcMarkers {
		if strings.HasSuffix(s, marker) {
			s = strings.TrimSuffix(s, marker)
			break
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fromTime(t), nil
		}
	}
	return Date{}, parseError(serverTimestamp, "unrecognized timestamp shape")
}

// ToServerDate turns a date-picker value ("2024-3-5" or "2024-03-05") into
// the zero-padded midnight string persisted for it.
func ToServerDate(calendarDate string) (string, error) {
	d, err := ParseCalendarDate(calendarDate)
	if err != nil {
		return "", err
	}
	return d.String() + ServerMidnightSuffix, nil
}

// ParseCalendarDate parses "YYYY-M-D" with optional zero padding and rejects
// days that do not exist (2023-02-29). Components are ASCII digits only.
func ParseCalendarDate(calendarDate string) (Date, error) {
	s := strings.TrimSpace(calendarDate)
	if !strings.Contains(s, "-") {
		return Date{}, parseError(calendarDate, "missing '-' separator")
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, parseError(calendarDate, "expected year-month-day")
	}

	// Year is four digits, month and day one or two.
	nums := make([]int, len(parts))
	for i, p := range parts {
		minLen, maxLen := 1, 2
		if i == 0 {
			minLen, maxLen = 4, 4
		}
		if len(p) < minLen || len(p) > maxLen || !allDigits(p) {
			return Date{}, parseError(calendarDate, fmt.Sprintf("component %q is not a %d-%d digit number", p, minLen, maxLen))
		}
		nums[i], _ = strconv.Atoi(p)
	}

	year, month, day := nums[0], time.Month(nums[1]), nums[2]
	d := NewDate(year, month, day)
	if d.Year != year || d.Month != month || d.Day != day {
		return Date{}, parseError(calendarDate, "no such day")
	}
	return d, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
