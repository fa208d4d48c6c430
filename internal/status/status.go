// Package status derives what the jobs screen should render.
//
// Status graph (every edge is a re-evaluation of Derive):
//
//	none ◄──────► jobLocked
//	  ▲               ▲
//	  └─► noContent ◄─┘
//
// There is no terminal state; the initial state is none.
package status

import (
	"fmt"
	"sync"
)

// Status is the presentation status of the jobs list.
type Status string

const (
	StatusNone      Status = "none"
	StatusJobLocked Status = "jobLocked"
	StatusNoContent Status = "noContent"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusNone, StatusJobLocked, StatusNoContent:
		return st, nil
	}
	return "", fmt.Errorf("unknown jobs status %q", s)
}

// Derive returns the status for a trainee's eligibility and the number of
// jobs currently displayed. Rules apply in order, first match wins:
// ineligible → jobLocked, zero jobs → noContent, otherwise none.
func Derive(eligible bool, jobCount int) Status {
	if !eligible {
		return StatusJobLocked
	}
	if jobCount == 0 {
		return StatusNoContent
	}
	return StatusNone
}

// HeaderMode is the header layout hint for a status: anything but none
// renders the header expanded.
func HeaderMode(s Status) string {
	if s != StatusNone {
		return "expanded"
	}
	return ""
}

// Transition records one re-evaluation that changed the status.
type Transition struct {
	From Status
	To   Status
}

// Tracker holds the current status of one screen.
type Tracker struct {
	mu      sync.Mutex
	current Status
}

// NewTracker returns a Tracker in the initial none state.
func NewTracker() *Tracker {
	return &Tracker{current: StatusNone}
}

// Current returns the tracked status.
func (t *Tracker) Current() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Update re-derives the status from fresh inputs. The returned bool is true
// when the status changed.
func (t *Tracker) Update(eligible bool, jobCount int) (Transition, bool) {
	next := Derive(eligible, jobCount)

	t.mu.Lock()
	defer t.mu.Unlock()
	tr := Transition{From: t.current, To: next}
	t.current = next
	return tr, tr.From != tr.To
}
