package relay

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Receiver is the answering side of the relay. It answers incoming calls
// without sending media and plays the received stream onto a Presenter.
type Receiver struct {
	mu sync.Mutex

	conn      Connector
	session   *Session
	presenter Presenter

	channels []DataChannel
	calls    []MediaCall
	playback *Playback
	paused   bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewReceiver registers the receiver as conn's event handler.
func NewReceiver(conn Connector, presenter Presenter) (*Receiver, error) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Receiver{
		conn:      conn,
		session:   NewSession(),
		presenter: presenter,
		ctx:       ctx,
		cancel:    cancel,
	}
	if err := conn.Subscribe(r.handleEvent); err != nil {
		cancel()
		return nil, err
	}
	return r, nil
}

func (r *Receiver) Session() *Session {
	return r.session
}

// Start opens the session and returns the identifier callers must dial.
func (r *Receiver) Start(ctx context.Context) (string, error) {
	return startSession(ctx, r.conn, r.session)
}

// Playback returns the active playback, or nil before a stream arrived.
func (r *Receiver) Playback() *Playback {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playback
}

// Pause stops presenting frames until Resume.
func (r *Receiver) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
	if r.playback != nil {
		r.playback.Pause()
	}
}

// Paused reports whether presentation is paused.
func (r *Receiver) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

func (r *Receiver) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
	if r.playback != nil {
		r.playback.Resume()
	}
}

func (r *Receiver) handleEvent(ev SessionEvent) {
	switch ev.Kind {
	case EventSessionOpen:
		if r.session.State() == StateConnecting {
			_ = r.session.Open(ev.LocalID)
		}
	case EventChannelOpen:
		if ev.Channel != nil {
			r.mu.Lock()
			r.channels = append(r.channels, ev.Channel)
			r.mu.Unlock()
		}
		if r.session.State() == StateOpen {
			_ = r.session.Transition(StateDataReady)
		}
		log.Printf("[relay] data channel from %s", ev.Peer)
	case EventIncomingCall:
		if ev.Call == nil {
			return
		}
		if st := r.session.State(); st.Terminal() {
			log.Printf("[relay] not answering %s in state %s", ev.Call.Peer, st)
			return
		}
		call, err := r.conn.Answer(r.ctx, *ev.Call)
		if err != nil {
			fail(r.session, wrapError(IncomingCallError, "answer", ev.Call.Peer, err))
			return
		}
		r.mu.Lock()
		closed := r.ctx.Err() != nil
		if !closed {
			r.calls = append(r.calls, call)
		}
		r.mu.Unlock()
		if closed {
			_ = call.Close()
			return
		}
		log.Printf("[relay] answered call from %s", ev.Call.Peer)
	case EventStreamReceived:
		if ev.Stream == nil {
			return
		}
		if err := r.session.Transition(StateMediaActive); err != nil {
			log.Printf("[relay] stream from %s: %v", ev.Peer, err)
			return
		}
		r.attach(ev.Stream)
	case EventError:
		fail(r.session, wrapError(IncomingCallError, "session", ev.Peer, ev.Err))
	case EventClosed:
		_ = r.session.Transition(StateClosed)
	}
}

func (r *Receiver) attach(stream RemoteStream) {
	playback := NewPlayback(stream, r.presenter)

	r.mu.Lock()
	old := r.playback
	r.playback = playback
	if r.paused {
		playback.Pause()
	}
	r.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	log.Printf("[relay] playing stream from %s", stream.Peer())
}

// Close stops playback and the answered calls, then closes the data
// channels and the session.
func (r *Receiver) Close() error {
	r.cancel()

	r.mu.Lock()
	playback, calls, channels := r.playback, r.calls, r.channels
	r.playback, r.calls, r.channels = nil, nil, nil
	r.mu.Unlock()

	if playback != nil {
		playback.Stop()
	}
	var errs []error
	for _, call := range calls {
		errs = append(errs, call.Close())
	}
	for _, ch := range channels {
		errs = append(errs, ch.Close())
	}
	errs = append(errs, r.conn.Close())

	_ = r.session.Transition(StateClosed)
	return errors.Join(errs...)
}
