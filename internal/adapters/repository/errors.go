package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("challenge not found")
	ErrDuplicateEntry = errors.New("entry already logged for this day")
	ErrClosed         = errors.New("store closed")
)
