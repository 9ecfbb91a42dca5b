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

func TestReceiverAnswersAndPlays(t *testing.T) {
	conn := &fakeConnector{localID: "viewer"}
	presenter := &presenterLog{}
	r, err := NewReceiver(conn, presenter)
	require.NoError(t, err)

	id, err := r.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "viewer", id)

	conn.emit(SessionEvent{Kind: EventChannelOpen, Peer: "caller", Channel: &fakeChannel{peer: "caller", owner: conn}})
	assert.Equal(t, StateDataReady, r.Session().State())

	conn.emit(SessionEvent{Kind: EventIncomingCall, Peer: "caller", Call: &IncomingCall{Peer: "caller", CallID: "mc_1"}})
	assert.Equal(t, []IncomingCall{{Peer: "caller", CallID: "mc_1"}}, conn.answered)

	remote := newFakeRemote()
	conn.emit(SessionEvent{Kind: EventStreamReceived, Peer: "caller", Stream: remote})
	assert.Equal(t, StateMediaActive, r.Session().State())

	frame := image.NewRGBA(image.Rect(0, 0, 1, 1))
	remote.frames <- frame
	remote.frames <- frame
	require.Eventually(t, func() bool { return presenter.count() == 2 }, time.Second, time.Millisecond)

	r.Pause()
	dropped1 := image.NewRGBA(image.Rect(0, 0, 1, 1))
	dropped2 := image.NewRGBA(image.Rect(0, 0, 1, 1))
	remote.frames <- dropped1
	remote.frames <- dropped2
	// The loop only takes this frame once the two above were handled.
	remote.frames <- image.NewRGBA(image.Rect(0, 0, 1, 1))
	assert.True(t, r.Playback().Paused())

	r.Resume()
	last := image.NewRGBA(image.Rect(0, 0, 1, 1))
	remote.frames <- last
	require.Eventually(t, func() bool {
		presenter.mu.Lock()
		defer presenter.mu.Unlock()
		return presenter.frames[len(presenter.frames)-1] == image.Image(last)
	}, time.Second, time.Millisecond)

	presenter.mu.Lock()
	for _, f := range presenter.frames {
		assert.NotSame(t, dropped1, f)
		assert.NotSame(t, dropped2, f)
	}
	presenter.mu.Unlock()

	close(remote.frames)
	select {
	case <-r.Playback().Done():
	case <-time.After(time.Second):
		t.Fatal("playback did not end with the stream")
	}

	require.NoError(t, r.Close())
	assert.Equal(t, []string{"open", "answer caller", "close call", "close channel", "close session"}, conn.calls())
	assert.Equal(t, StateClosed, r.Session().State())
}

func TestReceiverAnswerFailure(t *testing.T) {
	conn := &fakeConnector{localID: "viewer", answerErr: errors.New("bad offer")}
	r, err := NewReceiver(conn, &presenterLog{})
	require.NoError(t, err)
	_, err = r.Start(context.Background())
	require.NoError(t, err)

	conn.emit(SessionEvent{Kind: EventIncomingCall, Call: &IncomingCall{Peer: "caller"}})

	assert.Equal(t, StateError, r.Session().State())
	assert.ErrorIs(t, r.Session().Err(), ErrIncomingCall)

	// Terminal: further calls are not answered.
	conn.emit(SessionEvent{Kind: EventIncomingCall, Call: &IncomingCall{Peer: "other"}})
	assert.Equal(t, []string{"open", "answer caller"}, conn.calls())
}

func TestReceiverClosesCallBeforeChannels(t *testing.T) {
	conn := &fakeConnector{localID: "viewer"}
	r, err := NewReceiver(conn, &presenterLog{})
	require.NoError(t, err)
	_, err = r.Start(context.Background())
	require.NoError(t, err)

	conn.emit(SessionEvent{Kind: EventChannelOpen, Peer: "caller", Channel: &fakeChannel{peer: "caller", owner: conn}})
	conn.emit(SessionEvent{Kind: EventIncomingCall, Peer: "caller", Call: &IncomingCall{Peer: "caller", CallID: "mc_1"}})

	require.NoError(t, r.Close())
	assert.Equal(t, []string{"close call", "close channel", "close session"}, conn.calls()[2:])
	assert.Equal(t, StateClosed, r.Session().State())
}
