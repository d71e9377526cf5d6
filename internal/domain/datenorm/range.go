package datenorm

// Range is an inclusive span of calendar days, typically a challenge window.
type Range struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewRange validates that end is not before start.
func NewRange(start, end Date) (Range, error) {
	if end.Before(start) {
		return Range{}, &InvalidRangeError{Start: start, End: end}
	}
	return Range{Start: start, End: end}, nil
}

// Contains reports whether d is neither before Start nor after End.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether [from, to] shares at least one day with r.
func (r Range) Overlaps(from, to Date) bool {
	return !to.Before(r.Start) && !from.After(r.End)
}

// Clamp returns d moved into r when it falls outside.
func (r Range) Clamp(d Date) Date {
	switch {
	case d.Before(r.Start):
		return r.Start
	case d.After(r.End):
		return r.End
	default:
		return d
	}
}

// Len returns the number of days in r.
func (r Range) Len() int { return DaysBetween(r.Start, r.End) }
