package datenorm

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel kind wrapped by every ParseError.
var ErrParse = errors.New("date parse failed")

// ParseError reports a date string that did not match an expected shape.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse date %q: %s", e.Input, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrParse).
func (e *ParseError) Unwrap() error { return ErrParse }

func parseError(input, reason string) error {
	return &ParseError{Input: input, Reason: reason}
}

// ErrInvalidRange is the sentinel kind wrapped by every InvalidRangeError.
var ErrInvalidRange = errors.New("invalid date range")

// InvalidRangeError reports an end date that precedes its start date.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s precedes start %s", e.End, e.Start)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidRange).
func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }
