package relay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStates = []State{StateIdle, StateConnecting, StateOpen, StateDataReady, StateMediaActive, StateError, StateClosed}

func TestTerminalStatesNeverTransition(t *testing.T) {
	for _, from := range []State{StateError, StateClosed} {
		for _, to := range allStates {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionsOnlyMoveForward(t *testing.T) {
	assert.True(t, CanTransition(StateIdle, StateConnecting))
	assert.True(t, CanTransition(StateConnecting, StateOpen))
	assert.True(t, CanTransition(StateOpen, StateDataReady))
	assert.True(t, CanTransition(StateDataReady, StateMediaActive))
	assert.True(t, CanTransition(StateOpen, StateMediaActive))

	assert.False(t, CanTransition(StateDataReady, StateOpen))
	assert.False(t, CanTransition(StateMediaActive, StateConnecting))
	assert.False(t, CanTransition(StateOpen, StateOpen))

	for _, from := range allStates[:5] {
		assert.True(t, CanTransition(from, StateError), from.String())
		assert.True(t, CanTransition(from, StateClosed), from.String())
	}
}

func TestSessionKeepsFirstFailure(t *testing.T) {
	s := NewSession()
	var seen []State
	require.NoError(t, s.OnTransition(func(_, to State, _ error) { seen = append(seen, to) }))
	assert.ErrorIs(t, s.OnTransition(func(_, _ State, _ error) {}), ErrSubscribed)

	require.NoError(t, s.Transition(StateConnecting))
	require.NoError(t, s.Open("abc123"))
	assert.Equal(t, "abc123", s.LocalID())

	first := errors.New("boom")
	assert.True(t, s.Fail(first))
	assert.False(t, s.Fail(errors.New("later")))
	assert.ErrorIs(t, s.Transition(StateClosed), ErrInvalidTransition)

	assert.Equal(t, StateError, s.State())
	assert.Equal(t, first, s.Err())
	assert.Equal(t, []State{StateConnecting, StateOpen, StateError}, seen)
}

func TestErrorKindsMatchSentinels(t *testing.T) {
	cause := errors.New("peer unavailable")
	err := error(&Error{Kind: ConnectError, Op: "connect", Peer: "xyz789", Err: cause})

	assert.ErrorIs(t, err, ErrConnect)
	assert.NotErrorIs(t, err, ErrSessionOpen)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsConnectionError(err))
	assert.False(t, IsConnectionError(cause))
	assert.Contains(t, err.Error(), "xyz789")

	wrapped := wrapError(MediaCallError, "call", "x", err)
	assert.ErrorIs(t, wrapped, ErrConnect, "existing kind is kept")
}
