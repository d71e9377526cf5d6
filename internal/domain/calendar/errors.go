package calendar

import "errors"

// Sentinel kinds for calendar errors.
var (
	ErrInvalidViewMode  = errors.New("invalid calendar view mode")
	ErrInvalidDirection = errors.New("invalid calendar navigation direction")
)
