// Package cache keeps a Redis copy of the job source snapshot.
//
// Redis is an optimisation only: every Redis failure is logged and the
// request falls through to the wrapped source.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jobmate/availability-service/internal/jobs"
)

// DefaultKey is the Redis key holding the JSON-encoded snapshot.
const DefaultKey = "availability:jobs:snapshot"

// SubmittedChannel is the pub/sub channel announcing new submissions.
const SubmittedChannel = "EVENT_JOB_SUBMITTED"

// Source is a jobs.Source that serves snapshots from Redis when present.
type Source struct {
	next jobs.Source
	rdb  *redis.Client
	ttl  time.Duration
	key  string
	log  zerolog.Logger
}

// NewSource wraps next with a Redis cache entry living ttl.
func NewSource(next jobs.Source, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *Source {
	return &Source{next: next, rdb: rdb, ttl: ttl, key: DefaultKey, log: log}
}

// Jobs returns the cached snapshot, loading it from the wrapped source on a
// miss.
func (s *Source) Jobs(ctx context.Context) ([]jobs.Record, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	switch {
	case err == nil:
		var records []jobs.Record
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
		s.log.Warn().Str("key", s.key).Msg("[cache] corrupt snapshot, reloading")
	case errors.Is(err, redis.Nil):
		// miss
	default:
		s.log.Warn().Err(err).Msg("[cache] redis get failed")
	}

	records, _, err := s.load(ctx)
	return records, err
}

// Refresh reloads the snapshot from the wrapped source unconditionally and
// returns the number of records stored.
func (s *Source) Refresh(ctx context.Context) (int, error) {
	records, stored, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if !stored {
		return len(records), fmt.Errorf("cache refresh: snapshot not stored")
	}
	return len(records), nil
}

// Invalidate drops the cached snapshot.
func (s *Source) Invalidate(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (s *Source) load(ctx context.Context) ([]jobs.Record, bool, error) {
	records, err := s.next.Jobs(ctx)
	if err != nil {
		return nil, false, err
	}

	data, err := json.Marshal(records)
	if err != nil {
		s.log.Warn().Err(err).Msg("[cache] marshal snapshot failed")
		return records, false, nil
	}
	if err := s.rdb.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("[cache] redis set failed")
		return records, false, nil
	}
	return records, true, nil
}

// ─── Submissions ─────────────────────────────────────────────────────────────

type submissionRecorder interface {
	RecordSubmission(ctx context.Context, jobID, traineeID string) error
}

// Recorder records a submission through next, then drops the now stale
// snapshot and publishes EVENT_JOB_SUBMITTED. Both follow-ups are non-fatal.
type Recorder struct {
	next  submissionRecorder
	cache *Source
	log   zerolog.Logger
}

// NewRecorder wraps next.
func NewRecorder(next submissionRecorder, cache *Source, log zerolog.Logger) *Recorder {
	return &Recorder{next: next, cache: cache, log: log}
}

// RecordSubmission implements session.SubmissionRecorder.
func (r *Recorder) RecordSubmission(ctx context.Context, jobID, traineeID string) error {
	if err := r.next.RecordSubmission(ctx, jobID, traineeID); err != nil {
		return err
	}

	if err := r.cache.Invalidate(ctx); err != nil {
		r.log.Warn().Err(err).Str("jobId", jobID).Msg("[cache] invalidate after submission failed")
	}

	event, _ := json.Marshal(map[string]string{
		"type":      SubmittedChannel,
		"jobId":     jobID,
		"traineeId": traineeID,
		"at":        time.Now().UTC().Format(time.RFC3339),
	})
	if err := r.cache.rdb.Publish(ctx, SubmittedChannel, event).Err(); err != nil {
		r.log.Warn().Err(err).Msg("[cache] publish EVENT_JOB_SUBMITTED failed")
	}
	return nil
}
