package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/availability-service/internal/jobs"
)

func TestClone_IsDeep(t *testing.T) {
	orig := jobs.Record{ID: "r", Schedule: []string{"Monday"}, Users: map[string]string{"t1": "x"}}
	c := orig.Clone()

	c.Schedule[0] = "Friday"
	c.Users["t2"] = "y"

	assert.Equal(t, []string{"Monday"}, orig.Schedule)
	assert.Equal(t, map[string]string{"t1": "x"}, orig.Users)
}

func TestClone_KeepsNilFields(t *testing.T) {
	c := jobs.Record{ID: "r"}.Clone()
	assert.Nil(t, c.Schedule)
	assert.Nil(t, c.Users)
}

func TestSubmitted(t *testing.T) {
	r := jobs.Record{Users: map[string]string{"t1": ""}}
	assert.True(t, r.Submitted("t1"), "presence alone marks submission")
	assert.False(t, r.Submitted("t2"))
	assert.False(t, jobs.Record{}.Submitted("t1"))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		schedule []string
		wantErr  bool
	}{
		{"empty", nil, false},
		{"canonical", []string{"Monday", "Friday"}, false},
		{"lowercase", []string{"monday"}, true},
		{"weekend", []string{"Saturday"}, true},
		{"duplicate", []string{"Tuesday", "Tuesday"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := jobs.Record{ID: "r", Schedule: c.schedule}.Validate()
			if !c.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *jobs.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestSourceFunc(t *testing.T) {
	want := errors.New("boom")
	src := jobs.SourceFunc(func(context.Context) ([]jobs.Record, error) { return nil, want })
	_, err := src.Jobs(context.Background())
	assert.ErrorIs(t, err, want)
}
