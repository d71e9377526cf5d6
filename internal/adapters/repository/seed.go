package repository

import (
	"context"
	"fmt"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/logger"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Seed is the YAML layout accepted by LoadSeed. Dates are timestamp
// strings exactly as a database export would hold them; quote them so YAML
// does not turn them into timestamps of its own.
type Seed struct {
	Challenges []model.ChallengeRecord `koanf:"challenges"`
	Users      []model.UserRecord      `koanf:"users"`
	Entries    []model.EntryRecord     `koanf:"entries"`
}

// LoadSeed parses a seed file.
func LoadSeed(_ context.Context, path string) (Seed, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Seed{}, fmt.Errorf("load seed %s: %w", path, err)
	}
	var seed Seed
	if err := k.UnmarshalWithConf("", &seed, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Seed{}, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return seed, nil
}

// Apply validates every record and loads it into s. Nothing is loaded if
// any record is invalid.
func (s *MemoryStore) Apply(ctx context.Context, seed Seed) error {
	challenges := make([]model.Challenge, 0, len(seed.Challenges))
	for _, r := range seed.Challenges {
		c, err := r.ToChallenge()
		if err != nil {
			return err
		}
		challenges = append(challenges, c)
	}
	users := make([]model.User, 0, len(seed.Users))
	for _, r := range seed.Users {
		u, err := r.ToUser()
		if err != nil {
			return err
		}
		users = append(users, u)
	}
	entries, err := model.ToEntries(seed.Entries)
	if err != nil {
		return err
	}

	for _, c := range challenges {
		s.PutChallenge(c)
	}
	for _, u := range users {
		s.PutUser(u)
	}
	for _, e := range entries {
		s.PutEntry(e)
	}
	s.logger.Info(ctx, "seed applied",
		logger.Int("challenges", len(challenges)),
		logger.Int("users", len(users)),
		logger.Int("entries", len(entries)),
	)
	return nil
}
