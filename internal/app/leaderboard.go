package service

import (
	"context"
	"time"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/leaderboard"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/metrics"
)

// Board is a challenge leaderboard, possibly truncated to a limit.
type Board struct {
	ChallengeID  string            `json:"challenge_id"`
	Rows         []leaderboard.Row `json:"rows"`
	Participants int               `json:"participants"`
	Complete     bool              `json:"complete"`
}

// Standing is one participant's place on a challenge leaderboard.
type Standing struct {
	leaderboard.Row
	ChallengeID  string `json:"challenge_id"`
	Participants int    `json:"participants"`
	Complete     bool   `json:"complete"`
}

// Leaderboard ranks every participant of a challenge. A limit of zero or
// above the configured maximum returns the maximum.
func (s *Service) Leaderboard(ctx context.Context, challengeID string, limit int) (Board, error) {
	c, rows, err := s.rank(ctx, challengeID)
	if err != nil {
		return Board{}, err
	}
	if limit <= 0 || limit > s.maxLeaderboard {
		limit = s.maxLeaderboard
	}
	return Board{
		ChallengeID:  challengeID,
		Rows:         leaderboard.Top(rows, limit),
		Participants: len(rows),
		Complete:     s.complete(c),
	}, nil
}

// Rank returns userID's standing. A user with no entries is not ranked.
func (s *Service) Rank(ctx context.Context, challengeID, userID string) (Standing, error) {
	if userID == "" {
		return Standing{}, ErrUserRequired
	}
	c, rows, err := s.rank(ctx, challengeID)
	if err != nil {
		return Standing{}, err
	}
	pos, err := leaderboard.RankOf(rows, userID)
	if err != nil {
		return Standing{}, err
	}
	return Standing{
		Row:          rows[pos-1],
		ChallengeID:  challengeID,
		Participants: len(rows),
		Complete:     s.complete(c),
	}, nil
}

func (s *Service) rank(ctx context.Context, challengeID string) (model.Challenge, []leaderboard.Row, error) {
	start := time.Now()
	c, entries, err := s.challengeWithEntries(ctx, challengeID, "")
	if err != nil {
		return model.Challenge{}, nil, err
	}

	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, e := range entries {
		if _, ok := seen[e.UserID]; !ok {
			seen[e.UserID] = struct{}{}
			ids = append(ids, e.UserID)
		}
	}
	users, err := s.store.Users(ctx, ids)
	if err != nil {
		return model.Challenge{}, nil, err
	}

	in := make([]leaderboard.Contribution, len(entries))
	for i, e := range entries {
		u := users[e.UserID]
		in[i] = leaderboard.Contribution{
			UserID:    e.UserID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Amount:    e.Amount,
		}
	}
	rows := leaderboard.Aggregate(in)
	metrics.RecordLeaderboard(len(rows), float64(time.Since(start).Microseconds())/1000)
	return c, rows, nil
}

// complete reports whether the challenge's last day is behind the viewer.
func (s *Service) complete(c model.Challenge) bool {
	return datenorm.Today(s.now(), s.location).After(c.EndDate)
}
