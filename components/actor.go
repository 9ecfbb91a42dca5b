package components

import (
	"github.com/automoto/joy-ctrl/physics"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// Visual is the two-valued look of the actor.
type Visual int

const (
	VisualIdle Visual = iota
	VisualColliding
)

func (v Visual) String() string {
	if v == VisualColliding {
		return "colliding"
	}
	return "idle"
}

type ActorData struct {
	Position mgl64.Vec3
	Visual   Visual

	// Collisions counts every enter notification; it never goes down.
	Collisions uint64
	// Contacts holds the counterparts currently touching the actor.
	Contacts map[physics.BodyID]struct{}
}

var Actor = donburi.NewComponentType[ActorData]()
