package systems

import (
	"log"

	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/physics"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CollisionNotifier is told about every enter event with the new total.
type CollisionNotifier func(actor *donburi.Entry, total uint64)

// CollisionObserver turns contact notifications from the physics world into
// actor state. The actor is Colliding while it has at least one counterpart
// with an enter that has not been matched by an exit.
type CollisionObserver struct {
	ecs    *ecs.ECS
	notify CollisionNotifier
}

// NewCollisionObserver creates an observer for the actors of ecs. notify may
// be nil.
func NewCollisionObserver(ecs *ecs.ECS, notify CollisionNotifier) *CollisionObserver {
	return &CollisionObserver{ecs: ecs, notify: notify}
}

// OnCollision implements physics.Observer. Protocol errors are logged and
// otherwise ignored.
func (o *CollisionObserver) OnCollision(ev physics.CollisionEvent) {
	if err := o.Handle(ev); err != nil {
		log.Printf("[collision] %v", err)
	}
}

// Handle applies one notification and returns a *physics.ProtocolError when
// the notification does not fit the enter/exit protocol.
func (o *CollisionObserver) Handle(ev physics.CollisionEvent) error {
	entry := o.actorFor(ev.Body)
	if entry == nil {
		return &physics.ProtocolError{Event: ev, Reason: "body is not an actor"}
	}
	actor := components.Actor.Get(entry)
	if actor.Contacts == nil {
		actor.Contacts = make(map[physics.BodyID]struct{})
	}

	switch ev.Kind {
	case physics.Enter:
		actor.Collisions++
		_, duplicate := actor.Contacts[ev.Other]
		actor.Contacts[ev.Other] = struct{}{}
		o.setVisual(entry, actor, components.VisualColliding)
		if o.notify != nil {
			o.notify(entry, actor.Collisions)
		}
		if duplicate {
			return &physics.ProtocolError{Event: ev, Reason: "enter without exit"}
		}
	case physics.Exit:
		if _, ok := actor.Contacts[ev.Other]; !ok {
			return &physics.ProtocolError{Event: ev, Reason: "exit without enter"}
		}
		delete(actor.Contacts, ev.Other)
		if len(actor.Contacts) == 0 {
			o.setVisual(entry, actor, components.VisualIdle)
		}
	default:
		return &physics.ProtocolError{Event: ev, Reason: "unknown event kind"}
	}
	return nil
}

func (o *CollisionObserver) actorFor(id physics.BodyID) *donburi.Entry {
	entry, ok := components.PhysicsWorld.First(o.ecs.World)
	if !ok {
		return nil
	}
	body, ok := components.PhysicsWorld.Get(entry).Body(id)
	if !ok {
		return nil
	}
	e, ok := body.Data.(*donburi.Entry)
	if !ok || !e.Valid() || !e.HasComponent(components.Actor) {
		return nil
	}
	return e
}

func (o *CollisionObserver) setVisual(e *donburi.Entry, actor *components.ActorData, v components.Visual) {
	if actor.Visual == v {
		return
	}
	actor.Visual = v
	if !e.HasComponent(components.Tint) {
		return
	}

	tint := components.Tint.Get(e)
	target := float32(0)
	if v == components.VisualColliding {
		target = 1
	}
	tint.Tween = gween.New(tint.Blend, target, cfg.Actor.TintDuration, ease.Linear)
}
