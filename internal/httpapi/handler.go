// Package httpapi implements the HTTP handlers for the availability service.
//
// All routes expect an x-user-id header carrying the trainee id.
//
// Routes:
//
//	GET  /jobs                       → fetch records, show them unfiltered
//	GET  /jobs/view                  → current screen state, no refetch
//	POST /jobs/filter                → apply the availability filter
//	GET  /jobs/availability          → availability + unavailable days
//	POST /jobs/availability/toggle   → flip one weekday
//	POST /jobs/overlay               → toggle the filter overlay
//	POST /jobs/header                → pin the header
//	POST /jobs/reset                 → reinitialise the session
//	POST /jobs/{id}/submit           → record interest in a job
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"jobmate/availability-service/internal/availability"
	"jobmate/availability-service/internal/session"
)

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	sessions *session.Registry
	log      zerolog.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(sessions *session.Registry, log zerolog.Logger) *Handler {
	return &Handler{sessions: sessions, log: log}
}

// RegisterRoutes mounts all availability-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/jobs/", h.handleJobAction)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleJobs handles GET /jobs
func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	v, err := s.Fetch(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	jsonOK(w, v)
}

// handleJobAction handles /jobs/{action} and POST /jobs/{id}/submit
func (h *Handler) handleJobAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2 && parts[1] == "view":
		h.view(w, r)
	case len(parts) == 2 && parts[1] == "filter":
		h.filter(w, r)
	case len(parts) == 2 && parts[1] == "availability":
		h.availability(w, r)
	case len(parts) == 3 && parts[1] == "availability" && parts[2] == "toggle":
		h.toggleDay(w, r)
	case len(parts) == 2 && parts[1] == "overlay":
		h.toggleOverlay(w, r)
	case len(parts) == 2 && parts[1] == "header":
		h.staticHeader(w, r)
	case len(parts) == 2 && parts[1] == "reset":
		h.reset(w, r)
	case len(parts) == 3 && parts[2] == "submit":
		h.submit(w, r, parts[1])
	default:
		jsonError(w, fmt.Sprintf("unknown path %q", r.URL.Path), http.StatusNotFound)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	if !method(w, r, http.MethodGet) {
		return
	}
	if s, ok := h.session(w, r); ok {
		jsonOK(w, s.View())
	}
}

func (h *Handler) filter(w http.ResponseWriter, r *http.Request) {
	if !method(w, r, http.MethodPost) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	v, err := s.ApplyFilter(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	jsonOK(w, v)
}

type availabilityResponse struct {
	Availability    availability.Availability `json:"availability"`
	UnavailableDays []string                  `json:"unavailableDays"`
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	if !method(w, r, http.MethodGet) {
		return
	}
	if s, ok := h.session(w, r); ok {
		a := s.Availability()
		jsonOK(w, availabilityResponse{Availability: a, UnavailableDays: a.UnavailableDays()})
	}
}

func (h *Handler) toggleDay(w http.ResponseWriter, r *http.Request) {
	if !method(w, r, http.MethodPost) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Day string `json:"day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Day == "" {
		jsonError(w, "body must contain day", http.StatusBadRequest)
		return
	}

	a, err := s.ToggleDay(body.Day)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	jsonOK(w, availabilityResponse{Availability: a, UnavailableDays: a.UnavailableDays()})
}

func (h *Handler) toggleOverlay(w http.ResponseWriter, r *http.Request) {
	if !method(w, r, http.MethodPost) {
		return
	}
	if s, ok := h.session(w, r); ok {
		jsonOK(w, map[string]bool{"showOverlay": s.ToggleOverlay()})
	}
}

func (h *Handler) staticHeader(w http.ResponseWriter, r *http.Request) {
	if !method(w, r, http.MethodPost) {
		return
	}
	if s, ok := h.session(w, r); ok {
		s.SetStaticHeader()
		jsonOK(w, s.View())
	}
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if !method(w, r, http.MethodPost) {
		return
	}
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}
	jsonOK(w, h.sessions.Reset(userID).View())
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, jobID string) {
	if !method(w, r, http.MethodPost) {
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	card, err := s.Submit(r.Context(), jobID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	jsonOK(w, card)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return nil, false
	}
	return h.sessions.Get(userID), true
}

// writeErr maps session errors to HTTP status codes.
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	var ve *session.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, session.ErrJobNotFound):
		jsonError(w, "job not found", http.StatusNotFound)
	case errors.Is(err, session.ErrSourceUnavailable):
		h.log.Error().Err(err).Msg("[httpapi] job source unavailable")
		jsonError(w, "job source unavailable", http.StatusBadGateway)
	default:
		h.log.Error().Err(err).Msg("[httpapi] request failed")
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func method(w http.ResponseWriter, r *http.Request, want string) bool {
	if r.Method != want {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
