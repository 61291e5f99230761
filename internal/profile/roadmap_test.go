package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/skillgap/pkg/types"
)

func TestSelectRoadmap(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, _, err := s.ActiveRoadmap(ctx, "avery")
	require.ErrorIs(t, err, ErrNoRoadmap)

	started, existed, err := s.SelectRoadmap(ctx, "avery", "data-scientist")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "2026-03-01T12:00:00Z", started)

	s.now = func() time.Time { return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) }
	again, existed, err := s.SelectRoadmap(ctx, "avery", "data-scientist")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, started, again, "reselecting keeps the start time")

	_, _, err = s.SelectRoadmap(ctx, "avery", "backend-developer")
	require.NoError(t, err)
	domain, started, err := s.ActiveRoadmap(ctx, "avery")
	require.NoError(t, err)
	assert.Equal(t, "backend-developer", domain)
	assert.Equal(t, "2026-04-01T00:00:00Z", started)
}

func TestActiveRoadmapSameTimestamp(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, d := range []string{"data-scientist", "devops-engineer"} {
		_, _, err := s.SelectRoadmap(ctx, "avery", d)
		require.NoError(t, err)
	}
	domain, _, err := s.ActiveRoadmap(ctx, "avery")
	require.NoError(t, err)
	assert.Equal(t, "devops-engineer", domain)
}

func TestSetMilestoneStatus(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	day := func(d int) func() time.Time {
		return func() time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	}

	s.now = day(1)
	st, err := s.SetMilestoneStatus(ctx, "avery", "data-scientist", "ds-foundations", types.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, types.MilestoneState{Status: types.StatusInProgress, StartedAt: "2026-03-01T00:00:00Z"}, st)

	s.now = day(9)
	_, err = s.SetMilestoneStatus(ctx, "avery", "data-scientist", "ds-foundations", types.StatusCompleted)
	require.NoError(t, err)
	_, err = s.SetMilestoneStatus(ctx, "avery", "data-scientist", "ds-ml", types.StatusCompleted)
	require.NoError(t, err)

	states, err := s.MilestoneStates(ctx, "avery", "data-scientist")
	require.NoError(t, err)
	assert.Equal(t, map[string]types.MilestoneState{
		"ds-foundations": {Status: types.StatusCompleted, StartedAt: "2026-03-01T00:00:00Z", CompletedAt: "2026-03-09T00:00:00Z"},
		"ds-ml":          {Status: types.StatusCompleted, StartedAt: "2026-03-09T00:00:00Z", CompletedAt: "2026-03-09T00:00:00Z"},
	}, states)

	other, err := s.MilestoneStates(ctx, "avery", "backend-developer")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestNextState(t *testing.T) {
	const now = "2026-05-01T00:00:00Z"
	started := types.MilestoneState{Status: types.StatusInProgress, StartedAt: "2026-01-01T00:00:00Z"}
	done := types.MilestoneState{Status: types.StatusCompleted, StartedAt: "2026-01-01T00:00:00Z", CompletedAt: "2026-02-01T00:00:00Z"}

	tests := []struct {
		name   string
		prev   types.MilestoneState
		status types.MilestoneStatus
		want   types.MilestoneState
	}{
		{"start fresh", types.MilestoneState{Status: types.StatusNotStarted}, types.StatusInProgress,
			types.MilestoneState{Status: types.StatusInProgress, StartedAt: now}},
		{"complete without starting", types.MilestoneState{Status: types.StatusNotStarted}, types.StatusCompleted,
			types.MilestoneState{Status: types.StatusCompleted, StartedAt: now, CompletedAt: now}},
		{"complete keeps start", started, types.StatusCompleted,
			types.MilestoneState{Status: types.StatusCompleted, StartedAt: started.StartedAt, CompletedAt: now}},
		{"complete again keeps completion", done, types.StatusCompleted, done},
		{"reopen clears completion", done, types.StatusInProgress,
			types.MilestoneState{Status: types.StatusInProgress, StartedAt: done.StartedAt}},
		{"reset clears both", done, types.StatusNotStarted,
			types.MilestoneState{Status: types.StatusNotStarted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextState(tt.prev, tt.status, now))
		})
	}
}

func TestRemoveRoadmaps(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, d := range []string{"data-scientist", "devops-engineer"} {
		_, _, err := s.SelectRoadmap(ctx, "avery", d)
		require.NoError(t, err)
	}
	_, err := s.SetMilestoneStatus(ctx, "avery", "devops-engineer", "ops-systems", types.StatusCompleted)
	require.NoError(t, err)
	_, _, err = s.SelectRoadmap(ctx, "blake", "data-scientist")
	require.NoError(t, err)

	n, err := s.RemoveRoadmaps(ctx, "avery")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, _, err = s.ActiveRoadmap(ctx, "avery")
	assert.ErrorIs(t, err, ErrNoRoadmap)
	states, err := s.MilestoneStates(ctx, "avery", "devops-engineer")
	require.NoError(t, err)
	assert.Empty(t, states)

	domain, _, err := s.ActiveRoadmap(ctx, "blake")
	require.NoError(t, err)
	assert.Equal(t, "data-scientist", domain)
}
