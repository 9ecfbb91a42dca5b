package relay

import (
	"context"
	"image"
)

// EventKind identifies a SessionEvent.
type EventKind int

const (
	EventSessionOpen EventKind = iota + 1
	EventChannelOpen
	EventCallAccepted
	EventStreamReceived
	EventIncomingCall
	EventError
	EventClosed
)

func (k EventKind) String() string {
	switch k {
	case EventSessionOpen:
		return "session-open"
	case EventChannelOpen:
		return "channel-open"
	case EventCallAccepted:
		return "call-accepted"
	case EventStreamReceived:
		return "stream-received"
	case EventIncomingCall:
		return "incoming-call"
	case EventError:
		return "error"
	case EventClosed:
		return "closed"
	}
	return "unknown"
}

// SessionEvent is a notification from a Connector. Only the fields that
// belong to Kind are set.
type SessionEvent struct {
	Kind EventKind
	Peer string

	LocalID string        // EventSessionOpen
	Channel DataChannel   // EventChannelOpen
	Call    *IncomingCall // EventIncomingCall
	Stream  RemoteStream  // EventStreamReceived
	Err     error         // EventError, usually a *Error
}

// DataChannel is an open or opening data connection to a peer.
type DataChannel interface {
	Peer() string
	Label() string
	Send(data []byte) error
	Close() error
}

// MediaCall is an outbound media call.
type MediaCall interface {
	Peer() string
	Close() error
}

// IncomingCall identifies a call offered by a remote peer.
type IncomingCall struct {
	Peer   string
	CallID string
}

// LocalStream is a live video source carried by an outbound call.
type LocalStream interface {
	// Frames yields frames until the stream is stopped, then closes.
	Frames() <-chan image.Image
	// Stop releases the source. It is safe to call more than once.
	Stop()
}

// RemoteStream is the video received from a peer.
type RemoteStream interface {
	Peer() string
	// Frames yields decoded frames and closes when the stream ends.
	Frames() <-chan image.Image
}

// Connector is the connection collaborator: a signaling broker plus the
// peer connections it negotiates. Operations return once the request is
// under way; progress arrives as events.
//
// Implementations deliver events sequentially from a single goroutine and
// never while holding their own locks, so handlers may call back into the
// Connector.
type Connector interface {
	// Subscribe registers the single event handler.
	Subscribe(handler func(SessionEvent)) error
	// OpenSession registers with the broker and returns the local id.
	OpenSession(ctx context.Context) (string, error)
	Connect(ctx context.Context, remoteID string) (DataChannel, error)
	Call(ctx context.Context, remoteID string, stream LocalStream) (MediaCall, error)
	// Answer accepts an incoming call without sending media back. The
	// returned call is owned by the caller and closed on teardown.
	Answer(ctx context.Context, call IncomingCall) (MediaCall, error)
	Close() error
}
