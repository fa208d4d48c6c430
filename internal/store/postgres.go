// Package store implements the job source, eligibility provider and
// submission recorder on top of PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/availability-service/internal/jobs"
)

// Schema creates the tables read by this package when they are missing.
const Schema = `
CREATE TABLE IF NOT EXISTS trainees (
	id         TEXT PRIMARY KEY,
	graduated  BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS job_postings (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	company     TEXT,
	description TEXT,
	location    TEXT,
	pay         TEXT,
	schedule    TEXT[] NOT NULL DEFAULT '{}',
	users       JSONB NOT NULL DEFAULT '{}'::jsonb,
	is_active   BOOLEAN NOT NULL DEFAULT true,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// ErrNotFound is returned when a job or trainee row does not exist.
var ErrNotFound = errors.New("not found")

// Migrate applies Schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// ─── Jobs ────────────────────────────────────────────────────────────────────

// PostgresJobs reads job postings and records submissions.
type PostgresJobs struct {
	pool *pgxpool.Pool
}

// NewPostgresJobs returns a PostgresJobs backed by pool.
func NewPostgresJobs(pool *pgxpool.Pool) *PostgresJobs {
	return &PostgresJobs{pool: pool}
}

// Jobs returns every active posting, oldest first.
func (p *PostgresJobs) Jobs(ctx context.Context) ([]jobs.Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, COALESCE(company, ''), COALESCE(description, ''),
		        COALESCE(location, ''), COALESCE(pay, ''),
		        COALESCE(schedule, '{}'), COALESCE(users, '{}'::jsonb)
		 FROM job_postings
		 WHERE is_active
		 ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listJobs query: %w", err)
	}
	defer rows.Close()

	out := make([]jobs.Record, 0)
	for rows.Next() {
		var (
			r     jobs.Record
			users []byte
		)
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Company, &r.Description,
			&r.Location, &r.Pay, &r.Schedule, &users,
		); err != nil {
			return nil, fmt.Errorf("listJobs scan: %w", err)
		}
		if r.Users, err = decodeUsers(users); err != nil {
			return nil, fmt.Errorf("listJobs users for %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listJobs rows: %w", err)
	}
	return out, nil
}

// RecordSubmission adds traineeID to the posting's users map.
// Re-submitting is harmless: the key is overwritten.
func (p *PostgresJobs) RecordSubmission(ctx context.Context, jobID, traineeID string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE job_postings
		 SET users      = COALESCE(users, '{}'::jsonb) || jsonb_build_object($2::text, 'submitted'),
		     updated_at = NOW()
		 WHERE id = $1`,
		jobID, traineeID,
	)
	if err != nil {
		return fmt.Errorf("recordSubmission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recordSubmission %s: %w", jobID, ErrNotFound)
	}
	return nil
}

// decodeUsers turns the users JSONB object into trainee → marker. Non-string
// markers are kept in their JSON text form; presence is what matters.
func decodeUsers(raw []byte) (map[string]string, error) {
	users := make(map[string]string)
	if len(raw) == 0 {
		return users, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			users[k] = s
			continue
		}
		users[k] = string(v)
	}
	return users, nil
}

// ─── Trainees ────────────────────────────────────────────────────────────────

// PostgresTrainees answers eligibility from the trainees.graduated flag.
type PostgresTrainees struct {
	pool *pgxpool.Pool
}

// NewPostgresTrainees returns a PostgresTrainees backed by pool.
func NewPostgresTrainees(pool *pgxpool.Pool) *PostgresTrainees {
	return &PostgresTrainees{pool: pool}
}

// Eligible reports whether the trainee has graduated. Unknown trainees
// return ErrNotFound.
func (p *PostgresTrainees) Eligible(ctx context.Context, traineeID string) (bool, error) {
	var graduated bool
	err := p.pool.QueryRow(ctx,
		`SELECT graduated FROM trainees WHERE id = $1`,
		traineeID,
	).Scan(&graduated)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("trainee %s: %w", traineeID, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("eligible query: %w", err)
	}
	return graduated, nil
}
