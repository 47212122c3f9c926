package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/tifye/onduty/assert"
	"github.com/tifye/onduty/duty"
)

const (
	useDefaultCacheTime = -1
	maxBestLimit        = 100
)

// Queryer is the subset of *sqlx.DB the store needs.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Record is one finished shift.
type Record struct {
	ID             string    `db:"id"`
	StartedAt      time.Time `db:"started_at"`
	EndedAt        time.Time `db:"ended_at"`
	Outcome        string    `db:"outcome"`
	ElapsedSeconds int       `db:"elapsed_seconds"`
	Found          int       `db:"found"`
	Missed         int       `db:"missed"`
	Seeds          string    `db:"seeds"`
}

// NewRecord describes a finished shift. Anomalies still active at the
// end count as missed.
func NewRecord(s duty.Summary, startedAt, endedAt time.Time, seeds string) Record {
	return Record{
		ID:             uuid.NewString(),
		StartedAt:      startedAt.UTC(),
		EndedAt:        endedAt.UTC(),
		Outcome:        s.Phase.String(),
		ElapsedSeconds: s.Elapsed,
		Found:          s.Found,
		Missed:         s.Active,
		Seeds:          seeds,
	}
}

type Store struct {
	logger *log.Logger
	db     Queryer
	cache  *cache.Cache
}

func NewStore(logger *log.Logger, db Queryer) *Store {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(db)
	return &Store{
		logger: logger,
		db:     db,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Store) Insert(ctx context.Context, r Record) error {
	assert.AssertNotEmpty(r.ID)

	query := `
	insert into shifts (
		id,
		started_at,
		ended_at,
		outcome,
		elapsed_seconds,
		found,
		missed,
		seeds
	)
	values (?,?,?,?,?,?,?,?)
	`
	_, err := s.db.ExecContext(
		ctx, query,
		r.ID,
		r.StartedAt,
		r.EndedAt,
		r.Outcome,
		r.ElapsedSeconds,
		r.Found,
		r.Missed,
		r.Seeds,
	)
	if err != nil {
		return fmt.Errorf("insert shift: %s", err)
	}

	s.cache.Flush()
	return nil
}

// Best returns the shifts with the most anomalies found. Ties go to
// the longer shift, then the earlier one. Results are cached until the
// next insert.
func (s *Store) Best(ctx context.Context, limit int) ([]Record, error) {
	assert.Assert(limit > 0 && limit <= maxBestLimit, "limit out of range")

	cacheKey := fmt.Sprintf("best-%d", limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		records, ok := cached.([]Record)
		assert.Assert(ok, "expected []Record in cache")
		s.logger.Debug("cache hit on best shifts", "limit", limit)
		return records, nil
	}

	query := `
	select id, started_at, ended_at, outcome, elapsed_seconds, found, missed, seeds
	from shifts
	order by found desc, elapsed_seconds desc, ended_at asc
	limit ?
	`
	var records []Record
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("select best shifts: %s", err)
	}

	s.cache.Set(cacheKey, records, useDefaultCacheTime)
	return records, nil
}
