package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/availability-service/internal/httpapi"
	"jobmate/availability-service/internal/jobs"
	"jobmate/availability-service/internal/session"
	"jobmate/availability-service/internal/status"
)

type eligibleFunc func(ctx context.Context, traineeID string) (bool, error)

func (f eligibleFunc) Eligible(ctx context.Context, traineeID string) (bool, error) {
	return f(ctx, traineeID)
}

type recorderFunc func(ctx context.Context, jobID, traineeID string) error

func (f recorderFunc) RecordSubmission(ctx context.Context, jobID, traineeID string) error {
	return f(ctx, jobID, traineeID)
}

func fixture() []jobs.Record {
	return []jobs.Record{
		{ID: "rec1", Name: "Line cook", Schedule: []string{"Monday", "Wednesday"}, Users: map[string]string{}},
		{ID: "rec2", Name: "Prep cook", Schedule: []string{"Wednesday", "Thursday"}, Users: map[string]string{}},
	}
}

func newServer(t *testing.T, src jobs.Source) *httptest.Server {
	t.Helper()
	reg := session.NewRegistry(session.Deps{
		Source: src,
		Eligibility: eligibleFunc(func(_ context.Context, id string) (bool, error) {
			return id != "locked", nil
		}),
		Recorder: recorderFunc(func(context.Context, string, string) error { return nil }),
		Logger:   zerolog.Nop(),
	})
	mux := http.NewServeMux()
	httpapi.NewHandler(reg, zerolog.Nop()).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, user, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("x-user-id", user)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeView(t *testing.T, resp *http.Response) session.View {
	t.Helper()
	var v session.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func staticSource() jobs.Source {
	return jobs.SourceFunc(func(context.Context) ([]jobs.Record, error) { return fixture(), nil })
}

// ── Auth ──────────────────────────────────────────────────────────────────

func TestMissingUserHeader(t *testing.T) {
	srv := newServer(t, staticSource())
	for _, p := range []string{"/jobs", "/jobs/view", "/jobs/availability"} {
		resp := do(t, srv, http.MethodGet, p, "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, p)
	}
}

// ── Fetch / filter flow ───────────────────────────────────────────────────

func TestFetchThenFilter(t *testing.T) {
	srv := newServer(t, staticSource())

	resp := do(t, srv, http.MethodGet, "/jobs", "t1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeView(t, resp)
	assert.Len(t, v.Jobs, 2)
	assert.Equal(t, status.StatusNone, v.Status)

	// Default availability drops rec1 (Monday).
	resp = do(t, srv, http.MethodPost, "/jobs/filter", "t1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeView(t, resp)
	require.Len(t, v.Jobs, 1)
	assert.Equal(t, "rec2", v.Jobs[0].ID)
	assert.Equal(t, []string{"Monday", "Tuesday", "Friday"}, v.UnavailableDays)
}

func TestFilterToEmptyIsNoContent(t *testing.T) {
	srv := newServer(t, staticSource())

	resp := do(t, srv, http.MethodPost, "/jobs/availability/toggle", "t1", `{"day":"Wednesday"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/jobs/filter", "t1", "")
	v := decodeView(t, resp)
	assert.Empty(t, v.Jobs)
	assert.Equal(t, status.StatusNoContent, v.Status)
	assert.Equal(t, "expanded", v.Header)
}

func TestLockedTrainee(t *testing.T) {
	srv := newServer(t, staticSource())
	v := decodeView(t, do(t, srv, http.MethodGet, "/jobs", "locked", ""))
	assert.Equal(t, status.StatusJobLocked, v.Status)
}

func TestSourceFailure(t *testing.T) {
	srv := newServer(t, jobs.SourceFunc(func(context.Context) ([]jobs.Record, error) {
		return nil, errors.New("postgres down")
	}))
	resp := do(t, srv, http.MethodGet, "/jobs", "t1", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	v := decodeView(t, do(t, srv, http.MethodGet, "/jobs/view", "t1", ""))
	assert.Empty(t, v.Jobs)
	assert.Equal(t, status.StatusNoContent, v.Status)
}

// ── Availability ──────────────────────────────────────────────────────────

func TestToggleDay(t *testing.T) {
	srv := newServer(t, staticSource())

	resp := do(t, srv, http.MethodPost, "/jobs/availability/toggle", "t1", `{"day":"Monday"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UnavailableDays []string `json:"unavailableDays"`
	}
	require.NoError(t, json.NewDecoder(do(t, srv, http.MethodGet, "/jobs/availability", "t1", "").Body).Decode(&body))
	assert.Equal(t, []string{"Tuesday", "Friday"}, body.UnavailableDays)
}

func TestToggleDay_BadInput(t *testing.T) {
	srv := newServer(t, staticSource())
	for _, b := range []string{`{"day":"monday"}`, `{"day":"Saturday"}`, `{}`, `not json`} {
		resp := do(t, srv, http.MethodPost, "/jobs/availability/toggle", "t1", b)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, b)
	}
}

func TestReset(t *testing.T) {
	srv := newServer(t, staticSource())
	do(t, srv, http.MethodPost, "/jobs/availability/toggle", "t1", `{"day":"Monday"}`)

	v := decodeView(t, do(t, srv, http.MethodPost, "/jobs/reset", "t1", ""))
	assert.Equal(t, []string{"Monday", "Tuesday", "Friday"}, v.UnavailableDays)
}

// ── Overlay / header ──────────────────────────────────────────────────────

func TestOverlayAndHeader(t *testing.T) {
	srv := newServer(t, staticSource())

	var body map[string]bool
	require.NoError(t, json.NewDecoder(do(t, srv, http.MethodPost, "/jobs/overlay", "t1", "").Body).Decode(&body))
	assert.True(t, body["showOverlay"])

	v := decodeView(t, do(t, srv, http.MethodPost, "/jobs/header", "t1", ""))
	assert.True(t, v.StaticHeader)
	assert.True(t, v.ShowOverlay)
}

// ── Submit ────────────────────────────────────────────────────────────────

func TestSubmit(t *testing.T) {
	srv := newServer(t, staticSource())
	do(t, srv, http.MethodGet, "/jobs", "t1", "")

	resp := do(t, srv, http.MethodPost, "/jobs/rec2/submit", "t1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card session.Card
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
	assert.Equal(t, "rec2", card.ID)
	assert.True(t, card.Submitted)

	resp = do(t, srv, http.MethodPost, "/jobs/missing/submit", "t1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ── Routing ───────────────────────────────────────────────────────────────

func TestRouting(t *testing.T) {
	srv := newServer(t, staticSource())

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodPost, "/jobs", "t1", "").StatusCode)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodGet, "/jobs/filter", "t1", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/jobs/a/b/c", "t1", "").StatusCode)
}
