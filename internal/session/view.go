package session

import (
	"jobmate/availability-service/internal/availability"
	"jobmate/availability-service/internal/jobs"
	"jobmate/availability-service/internal/status"
)

// Card is one displayed job plus whether the session's trainee already
// submitted to it.
type Card struct {
	jobs.Record
	Submitted bool `json:"submitted"`
}

// View is the JSON shape returned to clients.
type View struct {
	Title           string                    `json:"title"`
	Jobs            []Card                    `json:"jobs"`
	Refreshing      bool                      `json:"refreshing"`
	Status          status.Status             `json:"status"`
	Header          string                    `json:"header"`
	StaticHeader    bool                      `json:"staticHeader"`
	ShowOverlay     bool                      `json:"showOverlay"`
	Availability    availability.Availability `json:"availability"`
	UnavailableDays []string                  `json:"unavailableDays"`
}
