package systems

import (
	"errors"
	"testing"

	"github.com/automoto/joy-ctrl/archetypes"
	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayStatusMirrorsSession(t *testing.T) {
	e := newTestECS(t)
	entry := archetypes.RelayStatus.Spawn(e)
	session := relay.NewSession()
	update := NewUpdateRelayStatus(session, func() string { return "xyz789" })

	update(e)
	status := components.RelayStatus.Get(entry)
	assert.Equal(t, "idle", status.State)

	require.NoError(t, session.Transition(relay.StateConnecting))
	require.NoError(t, session.Open("abc123"))
	update(e)
	assert.Equal(t, "open", status.State)
	assert.Equal(t, "abc123", status.LocalID)
	assert.Equal(t, "xyz789", status.RemoteID)
	assert.Equal(t, "Relay: open -> xyz789", relayLine(status))

	session.Fail(errors.New("gone"))
	update(e)
	assert.Equal(t, "error", status.State)
	assert.Equal(t, "gone", status.LastErr)
}
