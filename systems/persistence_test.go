package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySavedSettings(t *testing.T) {
	e := newTestECS(t)

	ApplySavedSettings(e, nil)
	assert.False(t, GetSettings(e).PitchEnabled)

	ApplySavedSettings(e, &SavedSettings{Debug: true, PitchEnabled: true, LastPeerID: "viewer-1"})
	s := GetSettings(e)
	assert.True(t, s.Debug)
	assert.True(t, s.PitchEnabled)
	assert.Equal(t, "viewer-1", s.LastPeerID)
}

func TestToggleDebugWithoutPersistence(t *testing.T) {
	e := newTestECS(t)
	require.Nil(t, gdataManager)

	ToggleDebug(e)
	assert.True(t, GetSettings(e).Debug)
	ToggleDebug(e)
	assert.False(t, GetSettings(e).Debug)
}
