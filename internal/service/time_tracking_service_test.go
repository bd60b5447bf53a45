package service

import (
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeTrackingStartEnd(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Go"})

	start := time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC)
	e.tracking.now = func() time.Time { return start }
	s, err := e.tracking.Start(u.ID, p.ID, "  ", "chapter 3")
	require.NoError(t, err)
	assert.Equal(t, model.ActivityStudy, s.ActivityType)
	assert.Nil(t, s.SessionEnd)
	assert.Nil(t, s.DurationMinutes)

	e.tracking.now = func() time.Time { return start.Add(25*time.Minute + 59*time.Second) }
	ended, err := e.tracking.End(s.ID, u.ID)
	require.NoError(t, err)
	require.NotNil(t, ended.DurationMinutes)
	assert.Equal(t, 25, *ended.DurationMinutes)
	require.NotNil(t, ended.SessionEnd)

	_, err = e.tracking.End(s.ID, u.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestTimeTrackingOwnership(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	other := e.user(t, "b@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Go"})

	_, err := e.tracking.Start(other.ID, p.ID, "review", "")
	assert.ErrorIs(t, err, util.ErrSkillPathNotFound)

	s, err := e.tracking.Start(u.ID, p.ID, "review", "")
	require.NoError(t, err)
	assert.Equal(t, "review", s.ActivityType)

	_, err = e.tracking.End(s.ID, other.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	_, err = e.tracking.End(9999, u.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	_, err = e.tracking.List(other.ID, p.ID)
	assert.ErrorIs(t, err, util.ErrSkillPathNotFound)
}

func TestTimeTrackingList(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	goPath := e.path(t, u.ID, model.Roadmap{Title: "Go"})
	sqlPath := e.path(t, u.ID, model.Roadmap{Title: "SQL"})

	start := time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC)
	for i, pathID := range []uint{goPath.ID, sqlPath.ID, goPath.ID} {
		e.tracking.now = func() time.Time { return start.Add(time.Duration(i) * time.Hour) }
		_, err := e.tracking.Start(u.ID, pathID, "", "")
		require.NoError(t, err)
	}

	all, err := e.tracking.List(u.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].SessionStart.After(all[1].SessionStart))

	only, err := e.tracking.List(u.ID, goPath.ID)
	require.NoError(t, err)
	require.Len(t, only, 2)
	for _, s := range only {
		assert.Equal(t, goPath.ID, s.SkillPathID)
	}
}
