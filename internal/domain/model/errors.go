package model

import "errors"

// Sentinel kinds for record conversion.
var (
	ErrInvalidRecord = errors.New("invalid record")
)
