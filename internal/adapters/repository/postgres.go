package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/datenorm"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/internal/domain/model"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/logger"
	"github.com/fidalgok/tilt-challenge-tracking-sub000/pkg/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout     = 5 * time.Second
	pgUniqueViolation  = "23505"
	challengeColumns   = `id, title, COALESCE(description, ''), start_date, end_date, published, visible`
	entryColumns       = `id, user_id, challenge_id, COALESCE(activity_id, ''), date, amount, COALESCE(notes, '')`
	selectChallengeSQL = `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	listChallengesSQL  = `SELECT ` + challengeColumns + ` FROM challenges ORDER BY start_date, id`
	listEntriesSQL     = `SELECT ` + entryColumns + ` FROM entries WHERE challenge_id = $1 ORDER BY created_at, id`
	listUsersSQL       = `SELECT id, COALESCE(first_name, ''), COALESCE(last_name, '') FROM users WHERE id = ANY($1)`
	insertEntrySQL     = `INSERT INTO entries (id, user_id, challenge_id, activity_id, date, amount, notes, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, now())`
)

// PostgresStore reads challenge data from PostgreSQL. Dates are stored as
// timestamptz holding UTC midnight of the intended day; FromInstant turns
// them back into calendar days.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresStore connects and pings the database.
func NewPostgresStore(ctx context.Context, dsn string, log logger.Logger) (*PostgresStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	log.Info(ctx, "connected to postgres")
	return &PostgresStore{pool: pool, logger: log}, nil
}

func scanChallenge(row pgx.Row) (model.Challenge, error) {
	var (
		c          model.Challenge
		start, end time.Time
	)
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &start, &end, &c.Published, &c.Visible); err != nil {
		return model.Challenge{}, err
	}
	c.StartDate = datenorm.FromInstant(start)
	c.EndDate = datenorm.FromInstant(end)
	return c, nil
}

// Challenge implements Store.
func (p *PostgresStore) Challenge(ctx context.Context, id string) (model.Challenge, error) {
	defer observe("challenge", time.Now())
	c, err := scanChallenge(p.pool.QueryRow(ctx, selectChallengeSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Challenge{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Challenge{}, p.fail(ctx, "challenge", err)
	}
	return c, nil
}

// Challenges implements Store.
func (p *PostgresStore) Challenges(ctx context.Context) ([]model.Challenge, error) {
	defer observe("challenges", time.Now())
	rows, err := p.pool.Query(ctx, listChallengesSQL)
	if err != nil {
		return nil, p.fail(ctx, "challenges", err)
	}
	defer rows.Close()

	var out []model.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, p.fail(ctx, "challenges", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, p.fail(ctx, "challenges", err)
	}
	return out, nil
}

// Entries implements Store.
func (p *PostgresStore) Entries(ctx context.Context, challengeID string) ([]model.Entry, error) {
	defer observe("entries", time.Now())
	rows, err := p.pool.Query(ctx, listEntriesSQL, challengeID)
	if err != nil {
		return nil, p.fail(ctx, "entries", err)
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		var (
			e  model.Entry
			at time.Time
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.ChallengeID, &e.ActivityID, &at, &e.Amount, &e.Notes); err != nil {
			return nil, p.fail(ctx, "entries", err)
		}
		e.Date = datenorm.FromInstant(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, p.fail(ctx, "entries", err)
	}
	return out, nil
}

// Users implements Store.
func (p *PostgresStore) Users(ctx context.Context, ids []string) (map[string]model.User, error) {
	defer observe("users", time.Now())
	out := make(map[string]model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := p.pool.Query(ctx, listUsersSQL, ids)
	if err != nil {
		return nil, p.fail(ctx, "users", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName); err != nil {
			return nil, p.fail(ctx, "users", err)
		}
		out[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, p.fail(ctx, "users", err)
	}
	return out, nil
}

// CreateEntry implements Store. The (user_id, challenge_id, date) unique
// index reports duplicates.
func (p *PostgresStore) CreateEntry(ctx context.Context, e model.Entry) (model.Entry, error) {
	defer observe("create_entry", time.Now())
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := p.pool.Exec(ctx, insertEntrySQL,
		e.ID, e.UserID, e.ChallengeID, e.ActivityID, e.Date.In(time.UTC), e.Amount, e.Notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.Entry{}, ErrDuplicateEntry
		}
		return model.Entry{}, p.fail(ctx, "create_entry", err)
	}
	return e, nil
}

// Close implements Store.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStore) fail(ctx context.Context, op string, err error) error {
	metrics.RecordStoreError(op)
	p.logger.Error(ctx, "postgres query failed", logger.String("op", op), logger.Error(err))
	return fmt.Errorf("postgres %s: %w", op, err)
}
