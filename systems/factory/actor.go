package factory

import (
	"github.com/automoto/joy-ctrl/archetypes"
	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/physics"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateActor spawns the kinematic ball. Contacts against fixed geometry are
// reported so that sweeping through the wall produces enter/exit events.
func CreateActor(ecs *ecs.ECS) *donburi.Entry {
	actor := archetypes.Actor.Spawn(ecs)

	components.Actor.Set(actor, &components.ActorData{
		Visual:   components.VisualIdle,
		Contacts: make(map[physics.BodyID]struct{}),
	})

	world := components.PhysicsWorld.Get(components.PhysicsWorld.MustFirst(ecs.World))
	id := world.Add(physics.BodySpec{
		Kind:           physics.Kinematic,
		Shape:          physics.Sphere(config.Actor.Radius),
		ReportContacts: true,
		KinematicFixed: true,
		Data:           actor,
	})
	components.Body.SetValue(actor, components.BodyData{ID: id})

	return actor
}
