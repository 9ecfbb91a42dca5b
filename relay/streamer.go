package relay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Streamer is the calling side of the relay: it opens a session, connects
// a data channel to one remote peer and, once the channel is open, calls
// that peer with a live capture of the canvas.
type Streamer struct {
	mu sync.Mutex

	conn      Connector
	session   *Session
	source    FrameSource
	frameRate int

	remoteID string
	channel  DataChannel
	stream   LocalStream
	call     MediaCall

	ctx    context.Context
	cancel context.CancelFunc
}

// NewStreamer registers the streamer as conn's event handler.
func NewStreamer(conn Connector, source FrameSource, frameRate int) (*Streamer, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Streamer{
		conn:      conn,
		session:   NewSession(),
		source:    source,
		frameRate: frameRate,
		ctx:       ctx,
		cancel:    cancel,
	}
	if err := conn.Subscribe(s.handleEvent); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

func (s *Streamer) Session() *Session {
	return s.session
}

// RemoteID returns the peer passed to Connect.
func (s *Streamer) RemoteID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteID
}

// Start opens the session and returns the local identifier, which has to be
// shared with the remote peer out of band.
func (s *Streamer) Start(ctx context.Context) (string, error) {
	return startSession(ctx, s.conn, s.session)
}

// Connect opens a data channel to remoteID. The media call follows
// automatically once the channel reports open.
func (s *Streamer) Connect(ctx context.Context, remoteID string) error {
	if st := s.session.State(); st != StateOpen {
		return fmt.Errorf("%w: %s", ErrNotOpen, st)
	}

	s.mu.Lock()
	s.remoteID = remoteID
	s.mu.Unlock()

	ch, err := s.conn.Connect(ctx, remoteID)
	if err != nil {
		return fail(s.session, wrapError(ConnectError, "connect", remoteID, err))
	}

	s.mu.Lock()
	closed := s.ctx.Err() != nil
	if !closed {
		s.channel = ch
	}
	s.mu.Unlock()
	if closed {
		// Close ran while the channel was being opened.
		_ = ch.Close()
		return fmt.Errorf("%w: %s", ErrNotOpen, s.session.State())
	}
	log.Printf("[relay] connecting to %s", remoteID)
	return nil
}

func (s *Streamer) handleEvent(ev SessionEvent) {
	switch ev.Kind {
	case EventSessionOpen:
		if s.session.State() == StateConnecting {
			_ = s.session.Open(ev.LocalID)
		}
	case EventChannelOpen:
		if ev.Peer != s.RemoteID() {
			log.Printf("[relay] ignoring channel from %s", ev.Peer)
			if ev.Channel != nil {
				_ = ev.Channel.Close()
			}
			return
		}
		if err := s.session.Transition(StateDataReady); err != nil {
			log.Printf("[relay] channel open: %v", err)
			return
		}
		s.startCall(ev.Peer)
	case EventCallAccepted:
		if ev.Peer != s.RemoteID() {
			log.Printf("[relay] ignoring call accepted by %s", ev.Peer)
			return
		}
		if err := s.session.Transition(StateMediaActive); err != nil {
			log.Printf("[relay] call accepted: %v", err)
		}
	case EventIncomingCall:
		log.Printf("[relay] streamer does not answer calls, ignoring %s", ev.Peer)
	case EventError:
		fail(s.session, wrapError(DataChannelError, "session", ev.Peer, ev.Err))
	case EventClosed:
		_ = s.session.Transition(StateClosed)
	}
}

func (s *Streamer) startCall(remoteID string) {
	stream := NewCanvasStream(s.source, s.frameRate)
	call, err := s.conn.Call(s.ctx, remoteID, stream)
	if err != nil {
		stream.Stop()
		fail(s.session, wrapError(MediaCallError, "call", remoteID, err))
		return
	}

	s.mu.Lock()
	closed := s.ctx.Err() != nil
	if !closed {
		s.stream = stream
		s.call = call
	}
	s.mu.Unlock()
	if closed {
		// Close ran while the call was being placed.
		_ = call.Close()
		stream.Stop()
		return
	}
	log.Printf("[relay] calling %s", remoteID)
}

// Close tears the relay down: the media call and its local stream first,
// then the data channel, then the session.
func (s *Streamer) Close() error {
	s.cancel()

	s.mu.Lock()
	call, stream, channel := s.call, s.stream, s.channel
	s.call, s.stream, s.channel = nil, nil, nil
	s.mu.Unlock()

	var errs []error
	if call != nil {
		errs = append(errs, call.Close())
	}
	if stream != nil {
		stream.Stop()
	}
	if channel != nil {
		errs = append(errs, channel.Close())
	}
	errs = append(errs, s.conn.Close())

	_ = s.session.Transition(StateClosed)
	return errors.Join(errs...)
}

// startSession runs the Idle -> Connecting -> Open part shared by both sides.
func startSession(ctx context.Context, conn Connector, session *Session) (string, error) {
	if err := session.Transition(StateConnecting); err != nil {
		return "", err
	}
	id, err := conn.OpenSession(ctx)
	if err != nil {
		return "", fail(session, wrapError(SessionOpenError, "open session", "", err))
	}
	// The session-open event may have beaten us here.
	if session.State() == StateConnecting {
		if err := session.Open(id); err != nil {
			return "", err
		}
	}
	log.Printf("[relay] session open as %s", id)
	return id, nil
}

// fail logs err, moves session to StateError and returns err.
func fail(session *Session, err *Error) error {
	log.Printf("[relay] %v", err)
	session.Fail(err)
	return err
}
