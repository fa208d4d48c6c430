// Package session owns the per-trainee state of the jobs screen.
//
// The filtering and status logic in jobs and status are pure; a Session is
// the presentation-side owner that stores what they return. It holds the
// availability selection, the displayed jobs and the derived status, and is
// transport-agnostic: used by both httpapi and grpcserver.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"jobmate/availability-service/internal/availability"
	"jobmate/availability-service/internal/jobs"
	"jobmate/availability-service/internal/status"
)

const defaultTitle = "Jobs"

// submittedMarker is the value written into Record.Users on submission.
const submittedMarker = "submitted"

// ─── Collaborators ───────────────────────────────────────────────────────────

// EligibilityProvider reports whether a trainee may see job postings
// (typically the trainee's graduation flag).
type EligibilityProvider interface {
	Eligible(ctx context.Context, traineeID string) (bool, error)
}

// SubmissionRecorder marks that a trainee expressed interest in a job.
type SubmissionRecorder interface {
	RecordSubmission(ctx context.Context, jobID, traineeID string) error
}

// Deps groups the collaborators shared by every session.
type Deps struct {
	Source      jobs.Source
	Eligibility EligibilityProvider
	Recorder    SubmissionRecorder
	Logger      zerolog.Logger
}

// ─── Session ─────────────────────────────────────────────────────────────────

// Session is the state of one trainee's jobs screen.
type Session struct {
	deps      Deps
	traineeID string

	mu           sync.Mutex
	title        string
	records      []jobs.Record
	refreshing   bool
	staticHeader bool
	showOverlay  bool
	eligible     bool
	avail        availability.Availability
	tracker      *status.Tracker
}

// New returns a freshly initialised session: default availability, no jobs,
// status none, refreshing until the first fetch completes.
func New(traineeID string, deps Deps) *Session {
	return &Session{
		deps:       deps,
		traineeID:  traineeID,
		title:      defaultTitle,
		records:    []jobs.Record{},
		refreshing: true,
		avail:      availability.Default(),
		tracker:    status.NewTracker(),
	}
}

// TraineeID returns the trainee this session belongs to.
func (s *Session) TraineeID() string { return s.traineeID }

// Fetch pulls a fresh snapshot from the job source and displays it
// unfiltered. The status is re-derived from the fetched count.
func (s *Session) Fetch(ctx context.Context) (View, error) {
	s.setRefreshing(true)

	records, srcErr := s.deps.Source.Jobs(ctx)
	if srcErr != nil {
		s.deps.Logger.Error().Err(srcErr).Str("traineeId", s.traineeID).Msg("[session] job source failed")
		records = []jobs.Record{}
	}
	eligible := s.eligibility(ctx)

	s.mu.Lock()
	s.records = jobs.Clone(records)
	s.eligible = eligible
	s.refreshing = false
	s.updateStatusLocked()
	v := s.viewLocked()
	s.mu.Unlock()

	s.deps.Logger.Info().
		Str("traineeId", s.traineeID).
		Int("jobs", len(v.Jobs)).
		Str("status", string(v.Status)).
		Msg("[session] Records fetched")

	if srcErr != nil {
		return v, fmt.Errorf("fetch jobs: %w: %w", ErrSourceUnavailable, srcErr)
	}
	return v, nil
}

// ApplyFilter re-pulls the job source, keeps only the jobs compatible with
// the current availability and displays them. The status follows the
// filtered count. The overlay is closed.
func (s *Session) ApplyFilter(ctx context.Context) (View, error) {
	s.mu.Lock()
	avail := s.avail
	s.mu.Unlock()

	records, srcErr := s.deps.Source.Jobs(ctx)
	if srcErr != nil {
		s.deps.Logger.Error().Err(srcErr).Str("traineeId", s.traineeID).Msg("[session] job source failed")
		records = []jobs.Record{}
	}
	filtered := jobs.Filter(records, avail)
	eligible := s.eligibility(ctx)

	s.mu.Lock()
	s.records = filtered
	s.eligible = eligible
	s.showOverlay = false
	s.updateStatusLocked()
	v := s.viewLocked()
	s.mu.Unlock()

	s.deps.Logger.Info().
		Str("traineeId", s.traineeID).
		Str("availability", avail.String()).
		Int("fetched", len(records)).
		Int("kept", len(filtered)).
		Int("excluded", len(jobs.Excluded(records, avail))).
		Int("malformed", countMalformed(records)).
		Str("status", string(v.Status)).
		Msg("[session] Availability filter applied")

	if srcErr != nil {
		return v, fmt.Errorf("filter jobs: %w: %w", ErrSourceUnavailable, srcErr)
	}
	return v, nil
}

// ToggleDay flips one weekday of the availability selection. The displayed
// list is left alone until ApplyFilter runs.
func (s *Session) ToggleDay(day string) (availability.Availability, error) {
	d, err := availability.ParseWeekday(day)
	if err != nil {
		return availability.Availability{}, &ValidationError{Msg: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.avail.Toggle(d)
	return s.avail, nil
}

// Availability returns the current selection.
func (s *Session) Availability() availability.Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avail
}

// ToggleOverlay flips the filter overlay visibility and returns the new value.
func (s *Session) ToggleOverlay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showOverlay = !s.showOverlay
	return s.showOverlay
}

// SetStaticHeader pins the screen header.
func (s *Session) SetStaticHeader() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staticHeader = true
}

// Submit records the trainee's interest in a displayed job.
// Returns ErrJobNotFound if the job is not on screen.
func (s *Session) Submit(ctx context.Context, jobID string) (Card, error) {
	s.mu.Lock()
	idx := s.indexLocked(jobID)
	s.mu.Unlock()
	if idx < 0 {
		return Card{}, ErrJobNotFound
	}

	if err := s.deps.Recorder.RecordSubmission(ctx, jobID, s.traineeID); err != nil {
		return Card{}, fmt.Errorf("record submission: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The list may have been replaced while the recorder ran.
	if idx = s.indexLocked(jobID); idx < 0 {
		return Card{}, ErrJobNotFound
	}
	rec := &s.records[idx]
	if rec.Users == nil {
		rec.Users = make(map[string]string)
	}
	rec.Users[s.traineeID] = submittedMarker

	s.deps.Logger.Info().Str("traineeId", s.traineeID).Str("jobId", jobID).Msg("[session] Submission recorded")
	return s.cardLocked(*rec), nil
}

// View returns a copy of the current screen state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// ─── Internals ───────────────────────────────────────────────────────────────

func (s *Session) setRefreshing(v bool) {
	s.mu.Lock()
	s.refreshing = v
	s.mu.Unlock()
}

// eligibility asks the provider; a failing provider counts as ineligible.
func (s *Session) eligibility(ctx context.Context) bool {
	ok, err := s.deps.Eligibility.Eligible(ctx, s.traineeID)
	if err != nil {
		s.deps.Logger.Warn().Err(err).Str("traineeId", s.traineeID).Msg("[session] eligibility lookup failed, treating as ineligible")
		return false
	}
	return ok
}

func (s *Session) updateStatusLocked() {
	tr, changed := s.tracker.Update(s.eligible, len(s.records))
	if changed {
		s.deps.Logger.Debug().
			Str("traineeId", s.traineeID).
			Str("from", string(tr.From)).
			Str("to", string(tr.To)).
			Msg("[session] Status changed")
	}
}

// countMalformed counts records whose schedule fails validation. They are
// still filtered; the count only surfaces bad source data in the logs.
func countMalformed(records []jobs.Record) int {
	n := 0
	for _, r := range records {
		if r.Validate() != nil {
			n++
		}
	}
	return n
}

func (s *Session) indexLocked(jobID string) int {
	for i := range s.records {
		if s.records[i].ID == jobID {
			return i
		}
	}
	return -1
}

func (s *Session) cardLocked(r jobs.Record) Card {
	return Card{Record: r.Clone(), Submitted: r.Submitted(s.traineeID)}
}

func (s *Session) viewLocked() View {
	cards := make([]Card, 0, len(s.records))
	for _, r := range s.records {
		cards = append(cards, s.cardLocked(r))
	}
	st := s.tracker.Current()
	return View{
		Title:           s.title,
		Jobs:            cards,
		Refreshing:      s.refreshing,
		Status:          st,
		Header:          status.HeaderMode(st),
		StaticHeader:    s.staticHeader,
		ShowOverlay:     s.showOverlay,
		Availability:    s.avail,
		UnavailableDays: s.avail.UnavailableDays(),
	}
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrJobNotFound is returned when a job is not part of the displayed list.
var ErrJobNotFound = fmt.Errorf("job not found")

// ErrSourceUnavailable wraps job source failures. The session still holds a
// usable (empty) list when it is returned.
var ErrSourceUnavailable = fmt.Errorf("job source unavailable")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
