package relay

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies connection failures.
type ErrorKind int

const (
	SessionOpenError ErrorKind = iota + 1
	ConnectError
	DataChannelError
	MediaCallError
	IncomingCallError
)

func (k ErrorKind) String() string {
	switch k {
	case SessionOpenError:
		return "session open"
	case ConnectError:
		return "connect"
	case DataChannelError:
		return "data channel"
	case MediaCallError:
		return "media call"
	case IncomingCallError:
		return "incoming call"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a connection failure. It is terminal for the session that
// produced it.
type Error struct {
	Kind ErrorKind
	Op   string // operation that failed, e.g. "connect"
	Peer string // remote peer, empty when not applicable
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("relay: ")
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Op != "" {
		b.WriteString(" during ")
		b.WriteString(e.Op)
	}
	if e.Peer != "" {
		b.WriteString(" with ")
		b.WriteString(e.Peer)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels below regardless of Op, Peer and cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Peer != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks on the kind of a connection failure.
var (
	ErrSessionOpen  = &Error{Kind: SessionOpenError}
	ErrConnect      = &Error{Kind: ConnectError}
	ErrDataChannel  = &Error{Kind: DataChannelError}
	ErrMediaCall    = &Error{Kind: MediaCallError}
	ErrIncomingCall = &Error{Kind: IncomingCallError}
)

var (
	ErrInvalidTransition = errors.New("relay: invalid state transition")
	ErrNotOpen           = errors.New("relay: session is not open")
	ErrSubscribed        = errors.New("relay: event handler already registered")
)

// IsConnectionError reports whether err came from the relay rather than
// from the simulation.
func IsConnectionError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// wrapError returns err as a relay error of the given kind, keeping an
// existing classification.
func wrapError(kind ErrorKind, op, peer string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: kind, Op: op, Peer: peer, Err: err}
}
