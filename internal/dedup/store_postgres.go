package dedup

import (
	"context"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps fingerprints in a seen_jobs table. Useful when runs
// happen on more than one machine and a shared state file is not an option.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("parse database url: %w", err)}
	}

	poolCfg.MaxConns = 4
	poolCfg.MaxConnLifetime = time.Hour
	// connection poolers (PgBouncer in transaction mode) choke on the
	// statement cache, so stick to plain exec mode
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("database unreachable: %w", err)}
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS seen_jobs (
			hash_id    TEXT PRIMARY KEY,
			first_seen TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		pool.Close()
		return nil, &StoreError{Op: "open", Err: err}
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (mapset.Set[string], error) {
	rows, err := s.pool.Query(ctx, `SELECT hash_id FROM seen_jobs`)
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	defer rows.Close()

	fingerprints := mapset.NewSet[string]()
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, &StoreError{Op: "load", Err: err}
		}
		fingerprints.Add(h)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	return fingerprints, nil
}

// Save inserts any fingerprint not already present. Rows are never
// deleted here; a crash mid-save leaves at worst a partial insert, and
// jobs not yet inserted get re-shown next run.
func (s *PostgresStore) Save(ctx context.Context, fingerprints mapset.Set[string]) error {
	batch := &pgx.Batch{}
	for h := range fingerprints.Iter() {
		batch.Queue(`INSERT INTO seen_jobs (hash_id) VALUES ($1) ON CONFLICT DO NOTHING`, h)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE seen_jobs`); err != nil {
		return &StoreError{Op: "reset", Err: err}
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
