package service

import "errors"

// Request errors raised by the service before touching the domain.
var (
	ErrInvalidTimezone   = errors.New("unknown time zone")
	ErrUserRequired      = errors.New("user id is required")
	ErrOutsideChallenge  = errors.New("date is outside the challenge")
	ErrInvalidEntryInput = errors.New("invalid entry")
)
