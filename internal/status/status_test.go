package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/availability-service/internal/status"
)

// ── Derive ────────────────────────────────────────────────────────────────

func TestDerive_Totality(t *testing.T) {
	cases := []struct {
		eligible bool
		count    int
		want     status.Status
	}{
		{false, 0, status.StatusJobLocked},
		{false, 1, status.StatusJobLocked},
		{false, 5, status.StatusJobLocked},
		{true, 0, status.StatusNoContent},
		{true, 1, status.StatusNone},
		{true, 5, status.StatusNone},
	}
	for _, c := range cases {
		got := status.Derive(c.eligible, c.count)
		assert.Equal(t, c.want, got, "Derive(%v, %d)", c.eligible, c.count)

		_, err := status.ParseStatus(string(got))
		assert.NoError(t, err, "Derive must return a defined status")
	}
}

func TestDerive_IneligibleWinsOverEmpty(t *testing.T) {
	assert.Equal(t, status.StatusJobLocked, status.Derive(false, 0))
}

// ── ParseStatus ───────────────────────────────────────────────────────────

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"none", "jobLocked", "noContent"} {
		got, err := status.ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(got))
	}
	for _, s := range []string{"", "NONE", "joblocked", "locked"} {
		_, err := status.ParseStatus(s)
		assert.Error(t, err, "ParseStatus(%q)", s)
	}
}

func TestHeaderMode(t *testing.T) {
	assert.Equal(t, "", status.HeaderMode(status.StatusNone))
	assert.Equal(t, "expanded", status.HeaderMode(status.StatusJobLocked))
	assert.Equal(t, "expanded", status.HeaderMode(status.StatusNoContent))
}

// ── Tracker ───────────────────────────────────────────────────────────────

func TestTracker_InitialNone(t *testing.T) {
	assert.Equal(t, status.StatusNone, status.NewTracker().Current())
}

func TestTracker_AnyToAny(t *testing.T) {
	tr := status.NewTracker()

	steps := []struct {
		eligible    bool
		count       int
		want        status.Status
		wantChanged bool
	}{
		{true, 3, status.StatusNone, false},
		{false, 3, status.StatusJobLocked, true},
		{true, 0, status.StatusNoContent, true},
		{true, 0, status.StatusNoContent, false},
		{false, 0, status.StatusJobLocked, true},
		{true, 2, status.StatusNone, true},
		{true, 0, status.StatusNoContent, true},
		{true, 1, status.StatusNone, true},
	}
	for i, s := range steps {
		prev := tr.Current()
		got, changed := tr.Update(s.eligible, s.count)
		assert.Equal(t, prev, got.From, "step %d from", i)
		assert.Equal(t, s.want, got.To, "step %d to", i)
		assert.Equal(t, s.wantChanged, changed, "step %d changed", i)
		assert.Equal(t, s.want, tr.Current())
	}
}
