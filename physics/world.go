// Package physics is a small rigid-body world used as the simulation's
// physics collaborator. It moves kinematic and dynamic bodies, finds
// overlaps with a resolv broadphase on the ground (x/z) plane, and reports
// contact enter/exit transitions. There is no contact response.
package physics

import (
	"errors"
	"log"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

var (
	ErrObserverRegistered = errors.New("physics: observer already registered")
	ErrUnknownBody        = errors.New("physics: unknown body")
	ErrNotKinematic       = errors.New("physics: body is not kinematic")
)

// Config configures a World.
type Config struct {
	Gravity mgl64.Vec3

	// Scale converts world units to broadphase units, HalfExtent is the
	// half size of the square broadphase area centred on the origin and
	// Cell the broadphase cell size in broadphase units.
	Scale      float64
	HalfExtent float64
	Cell       int
}

type pair struct {
	a, b BodyID // a < b
}

func makePair(x, y BodyID) pair {
	if x > y {
		x, y = y, x
	}
	return pair{a: x, b: y}
}

// World owns all bodies and the broadphase space.
type World struct {
	cfg      Config
	space    *resolv.Space
	bodies   map[BodyID]*Body
	order    []BodyID
	contacts map[pair]struct{}
	observer Observer
	nextID   BodyID
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	size := int(math.Ceil(2 * cfg.HalfExtent * cfg.Scale))
	return &World{
		cfg:      cfg,
		space:    resolv.NewSpace(size, size, cfg.Cell, cfg.Cell),
		bodies:   make(map[BodyID]*Body),
		contacts: make(map[pair]struct{}),
	}
}

// Subscribe registers the single contact observer.
func (w *World) Subscribe(o Observer) error {
	if w.observer != nil {
		return ErrObserverRegistered
	}
	w.observer = o
	return nil
}

// Add creates a body from spec and returns its id.
func (w *World) Add(spec BodySpec) BodyID {
	w.nextID++
	b := &Body{
		ID:             w.nextID,
		Kind:           spec.Kind,
		Shape:          spec.Shape,
		Position:       spec.Position,
		Velocity:       spec.Velocity,
		ReportContacts: spec.ReportContacts,
		KinematicFixed: spec.KinematicFixed,
		Data:           spec.Data,
	}
	if b.Kind != Dynamic {
		b.Velocity = mgl64.Vec3{}
	}

	x, y, width, height := w.footprint(b)
	b.object = resolv.NewObject(x, y, width, height)
	b.object.Data = b.ID
	w.space.Add(b.object)

	w.bodies[b.ID] = b
	w.order = append(w.order, b.ID)
	return b.ID
}

// Body returns the body with the given id.
func (w *World) Body(id BodyID) (*Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// Len returns the number of bodies in the world.
func (w *World) Len() int {
	return len(w.order)
}

// SetKinematicTranslation moves a kinematic body to pos for the next step.
func (w *World) SetKinematicTranslation(id BodyID, pos mgl64.Vec3) error {
	b, ok := w.bodies[id]
	if !ok {
		return ErrUnknownBody
	}
	if b.Kind != Kinematic {
		return ErrNotKinematic
	}
	b.Position = pos
	b.Moved = true
	return nil
}

// Step integrates dynamic bodies over dt seconds, syncs the broadphase and
// notifies the observer about contacts that started or ended.
func (w *World) Step(dt float64) {
	for _, id := range w.order {
		b := w.bodies[id]
		switch b.Kind {
		case Dynamic:
			b.Velocity = b.Velocity.Add(w.cfg.Gravity.Mul(dt))
			b.Position = b.Position.Add(b.Velocity.Mul(dt))
			w.sync(b)
		case Kinematic:
			if b.Moved {
				w.sync(b)
			}
		}
	}

	current := w.findContacts()

	var started, ended []pair
	for p := range current {
		if _, ok := w.contacts[p]; !ok {
			started = append(started, p)
		}
	}
	for p := range w.contacts {
		if _, ok := current[p]; !ok {
			ended = append(ended, p)
		}
	}
	w.contacts = current

	sortPairs(ended)
	sortPairs(started)
	for _, p := range ended {
		w.emit(Exit, p)
	}
	for _, p := range started {
		w.emit(Enter, p)
	}

	for _, id := range w.order {
		w.bodies[id].Moved = false
	}
}

func (w *World) findContacts() map[pair]struct{} {
	current := make(map[pair]struct{})
	for _, id := range w.order {
		b := w.bodies[id]
		if b.Kind == Fixed {
			continue
		}
		check := b.object.Check(0, 0)
		if check == nil {
			continue
		}
		for _, obj := range check.Objects {
			otherID, ok := obj.Data.(BodyID)
			if !ok || otherID == b.ID {
				continue
			}
			other := w.bodies[otherID]
			if other == nil || !reportable(b, other) {
				continue
			}
			if overlaps(b, other) {
				current[makePair(b.ID, other.ID)] = struct{}{}
			}
		}
	}
	return current
}

func (w *World) emit(kind EventKind, p pair) {
	if w.observer == nil {
		return
	}
	a, b := w.bodies[p.a], w.bodies[p.b]
	if a == nil || b == nil {
		log.Printf("[physics] dropping %s for missing body in pair %d/%d", kind, p.a, p.b)
		return
	}
	if a.ReportContacts {
		w.observer.OnCollision(CollisionEvent{Kind: kind, Body: a.ID, Other: b.ID})
	}
	if b.ReportContacts {
		w.observer.OnCollision(CollisionEvent{Kind: kind, Body: b.ID, Other: a.ID})
	}
}

// sync moves the broadphase object to the body's current footprint.
func (w *World) sync(b *Body) {
	x, y, _, _ := w.footprint(b)
	b.object.X = x
	b.object.Y = y
	b.object.Update()
}

// footprint projects the body's bounding box onto the x/z plane in
// broadphase units.
func (w *World) footprint(b *Body) (x, y, width, height float64) {
	ext := b.Shape.Extents()
	x = (b.Position.X() - ext.X() + w.cfg.HalfExtent) * w.cfg.Scale
	y = (b.Position.Z() - ext.Z() + w.cfg.HalfExtent) * w.cfg.Scale
	width = 2 * ext.X() * w.cfg.Scale
	height = 2 * ext.Z() * w.cfg.Scale
	return x, y, width, height
}

// reportable applies the default active collision types: anything involving
// a dynamic body, kinematic-fixed only when the kinematic body asks for it,
// and only if at least one side wants notifications.
func reportable(a, b *Body) bool {
	if !a.ReportContacts && !b.ReportContacts {
		return false
	}
	if a.Kind == Dynamic || b.Kind == Dynamic {
		return true
	}
	switch {
	case a.Kind == Kinematic && b.Kind == Fixed:
		return a.KinematicFixed
	case a.Kind == Fixed && b.Kind == Kinematic:
		return b.KinematicFixed
	}
	return false
}

func overlaps(a, b *Body) bool {
	switch {
	case a.Shape.IsSphere() && b.Shape.IsSphere():
		r := a.Shape.Radius + b.Shape.Radius
		return a.Position.Sub(b.Position).LenSqr() < r*r
	case a.Shape.IsSphere():
		return sphereBox(a.Position, a.Shape.Radius, b.Position, b.Shape.HalfExtents)
	case b.Shape.IsSphere():
		return sphereBox(b.Position, b.Shape.Radius, a.Position, a.Shape.HalfExtents)
	}
	d := a.Position.Sub(b.Position)
	s := a.Shape.HalfExtents.Add(b.Shape.HalfExtents)
	return math.Abs(d.X()) < s.X() && math.Abs(d.Y()) < s.Y() && math.Abs(d.Z()) < s.Z()
}

func sphereBox(center mgl64.Vec3, radius float64, boxCenter, half mgl64.Vec3) bool {
	var distSq float64
	for i := 0; i < 3; i++ {
		lo := boxCenter[i] - half[i]
		hi := boxCenter[i] + half[i]
		closest := math.Max(lo, math.Min(center[i], hi))
		d := center[i] - closest
		distSq += d * d
	}
	return distSq < radius*radius
}

func sortPairs(ps []pair) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].a != ps[j].a {
			return ps[i].a < ps[j].a
		}
		return ps[i].b < ps[j].b
	})
}
