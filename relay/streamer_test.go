package relay

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStreamer(t *testing.T, conn *fakeConnector) *Streamer {
	t.Helper()
	s, err := NewStreamer(conn, staticSource{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}, 30)
	require.NoError(t, err)
	return s
}

func TestStreamerReachesMediaActive(t *testing.T) {
	conn := &fakeConnector{localID: "abc123", autoOpen: true}
	s := newTestStreamer(t, conn)
	ctx := context.Background()

	id, err := s.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, StateOpen, s.Session().State())

	require.NoError(t, s.Connect(ctx, "xyz789"))
	assert.Equal(t, StateDataReady, s.Session().State())
	assert.Equal(t, []string{"open", "connect xyz789", "call xyz789"}, conn.calls())

	conn.emit(SessionEvent{Kind: EventCallAccepted, Peer: "xyz789"})
	assert.Equal(t, StateMediaActive, s.Session().State())

	require.NoError(t, s.Close())
}

func TestStreamerConnectFailureIsTerminal(t *testing.T) {
	conn := &fakeConnector{localID: "abc123", connectErr: errors.New("peer unavailable")}
	s := newTestStreamer(t, conn)
	ctx := context.Background()

	_, err := s.Start(ctx)
	require.NoError(t, err)

	err = s.Connect(ctx, "nobody")
	require.ErrorIs(t, err, ErrConnect)
	assert.True(t, IsConnectionError(err))
	assert.Equal(t, StateError, s.Session().State())
	assert.ErrorIs(t, s.Session().Err(), ErrConnect)

	// No reconnection is attempted, and a second connect is refused.
	assert.ErrorIs(t, s.Connect(ctx, "nobody"), ErrNotOpen)
	assert.Equal(t, []string{"open", "connect nobody"}, conn.calls())
}

func TestStreamerSessionOpenFailure(t *testing.T) {
	conn := &fakeConnector{openErr: errors.New("broker down")}
	s := newTestStreamer(t, conn)

	_, err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrSessionOpen)
	assert.Equal(t, StateError, s.Session().State())
}

func TestStreamerCallFailure(t *testing.T) {
	conn := &fakeConnector{localID: "abc123", autoOpen: true, callErr: errors.New("no media")}
	s := newTestStreamer(t, conn)
	ctx := context.Background()

	_, err := s.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Connect(ctx, "xyz789"))

	assert.Equal(t, StateError, s.Session().State())
	assert.ErrorIs(t, s.Session().Err(), ErrMediaCall)
}

func TestStreamerClosesInOrder(t *testing.T) {
	conn := &fakeConnector{localID: "abc123", autoOpen: true}
	s := newTestStreamer(t, conn)
	ctx := context.Background()
	_, err := s.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Connect(ctx, "xyz789"))
	conn.emit(SessionEvent{Kind: EventCallAccepted, Peer: "xyz789"})

	require.NoError(t, s.Close())

	assert.Equal(t, []string{"close call", "close channel", "close session"}, conn.calls()[3:])
	assert.Equal(t, StateClosed, s.Session().State())

	// The local stream was released before the channel closed.
	require.Len(t, conn.streams, 1)
	for range conn.streams[0].Frames() {
	}

	conn.emit(SessionEvent{Kind: EventCallAccepted, Peer: "xyz789"})
	assert.Equal(t, StateClosed, s.Session().State())
}

func TestStreamerReleasesCallPlacedDuringClose(t *testing.T) {
	conn := &fakeConnector{localID: "abc123", autoOpen: true}
	s := newTestStreamer(t, conn)
	conn.onCall = func() { require.NoError(t, s.Close()) }
	ctx := context.Background()
	_, err := s.Start(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Connect(ctx, "xyz789"), ErrNotOpen)

	assert.Equal(t, []string{"close session", "close call", "close channel"}, conn.calls()[3:])
	assert.Equal(t, StateClosed, s.Session().State())
	require.Len(t, conn.streams, 1)
	for range conn.streams[0].Frames() {
	}
}

func TestStreamerIgnoresCallAcceptedByOtherPeer(t *testing.T) {
	conn := &fakeConnector{localID: "abc123", autoOpen: true}
	s := newTestStreamer(t, conn)
	ctx := context.Background()
	_, err := s.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Connect(ctx, "xyz789"))

	conn.emit(SessionEvent{Kind: EventCallAccepted, Peer: "intruder"})
	assert.Equal(t, StateDataReady, s.Session().State())

	conn.emit(SessionEvent{Kind: EventCallAccepted, Peer: "xyz789"})
	assert.Equal(t, StateMediaActive, s.Session().State())

	require.NoError(t, s.Close())
}

func TestStreamerErrorEventIsTerminal(t *testing.T) {
	conn := &fakeConnector{localID: "abc123"}
	s := newTestStreamer(t, conn)
	_, err := s.Start(context.Background())
	require.NoError(t, err)

	conn.emit(SessionEvent{Kind: EventError, Err: &Error{Kind: DataChannelError, Op: "data channel"}})
	assert.Equal(t, StateError, s.Session().State())

	conn.emit(SessionEvent{Kind: EventClosed})
	assert.Equal(t, StateError, s.Session().State())
}

func TestStreamerRequiresSingleSubscription(t *testing.T) {
	conn := &fakeConnector{}
	newTestStreamer(t, conn)

	_, err := NewStreamer(conn, staticSource{}, 30)
	assert.ErrorIs(t, err, ErrSubscribed)
}

func TestCanvasStreamDeliversLatestFrame(t *testing.T) {
	slot := NewFrameSlot(30)
	frame := image.NewRGBA(image.Rect(0, 0, 2, 2))
	slot.Store(frame)

	stream := NewCanvasStream(slot, 200)
	select {
	case got := <-stream.Frames():
		assert.Same(t, frame, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame")
	}

	stream.Stop()
	stream.Stop()
	for range stream.Frames() {
	}
}

func TestFrameSlotRateLimitsCaptures(t *testing.T) {
	slot := NewFrameSlot(30)
	now := time.Unix(100, 0)

	assert.True(t, slot.Due(now))
	assert.False(t, slot.Due(now.Add(10*time.Millisecond)))
	assert.True(t, slot.Due(now.Add(34*time.Millisecond)))
	assert.Nil(t, slot.Snapshot())
}
