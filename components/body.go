package components

import (
	"github.com/automoto/joy-ctrl/physics"
	"github.com/yohamta/donburi"
)

// BodyData links an entity to its body in the physics world.
type BodyData struct {
	ID physics.BodyID
}

var Body = donburi.NewComponentType[BodyData]()

// PhysicsWorldData holds the scene's physics collaborator.
type PhysicsWorldData struct {
	*physics.World
}

var PhysicsWorld = donburi.NewComponentType[PhysicsWorldData]()
