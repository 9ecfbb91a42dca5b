package physics

import "fmt"

// EventKind is the kind of a contact notification.
type EventKind int

const (
	Enter EventKind = iota + 1
	Exit
)

func (k EventKind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// CollisionEvent is delivered once per reporting body for every contact that
// starts or ends. Body is the reporting body, Other its counterpart.
type CollisionEvent struct {
	Kind  EventKind
	Body  BodyID
	Other BodyID
}

// Observer receives contact notifications from World.Step.
type Observer interface {
	OnCollision(CollisionEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(CollisionEvent)

func (f ObserverFunc) OnCollision(ev CollisionEvent) {
	f(ev)
}

// ProtocolError describes a notification that does not fit the
// enter/exit protocol. Receivers log it and carry on.
type ProtocolError struct {
	Event  CollisionEvent
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("collision protocol: %s event for body %d (other %d): %s",
		e.Event.Kind, e.Event.Body, e.Event.Other, e.Reason)
}
