// Package jobs holds job postings and the availability filter applied to them.
package jobs

import (
	"context"
	"fmt"

	"jobmate/availability-service/internal/availability"
)

// Record is one job posting as delivered by the job source.
type Record struct {
	ID          string            `json:"rid"`
	Name        string            `json:"name"`
	Company     string            `json:"company,omitempty"`
	Description string            `json:"description,omitempty"`
	Location    string            `json:"location,omitempty"`
	Pay         string            `json:"pay,omitempty"`
	Schedule    []string          `json:"schedule"`
	Users       map[string]string `json:"users"`
}

// Submitted reports whether traineeID is present in the record's users map.
func (r Record) Submitted(traineeID string) bool {
	_, ok := r.Users[traineeID]
	return ok
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.Schedule != nil {
		out.Schedule = make([]string, len(r.Schedule))
		copy(out.Schedule, r.Schedule)
	}
	if r.Users != nil {
		out.Users = make(map[string]string, len(r.Users))
		for k, v := range r.Users {
			out.Users[k] = v
		}
	}
	return out
}

// Validate checks the schedule holds only canonical weekday names without
// duplicates. Filtering never calls it; malformed schedules still pass
// through Filter.
func (r Record) Validate() error {
	seen := make(map[string]bool, len(r.Schedule))
	for _, day := range r.Schedule {
		if _, err := availability.ParseWeekday(day); err != nil {
			return &ValidationError{Msg: fmt.Sprintf("job %s: %v", r.ID, err)}
		}
		if seen[day] {
			return &ValidationError{Msg: fmt.Sprintf("job %s: duplicate schedule day %q", r.ID, day)}
		}
		seen[day] = true
	}
	return nil
}

// Clone deep-copies a slice of records. A nil input yields an empty slice.
func Clone(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out
}

// Source returns the current ordered snapshot of job postings.
// Retry and caching, if any, are the implementation's concern.
type Source interface {
	Jobs(ctx context.Context) ([]Record, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]Record, error)

// Jobs calls f.
func (f SourceFunc) Jobs(ctx context.Context) ([]Record, error) { return f(ctx) }

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
