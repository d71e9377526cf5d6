package leaderboard

import "errors"

// ErrNotRanked reports a user with no qualifying entries.
var ErrNotRanked = errors.New("user not ranked")
