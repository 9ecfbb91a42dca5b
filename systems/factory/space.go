package factory

import (
	"github.com/automoto/joy-ctrl/archetypes"
	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/physics"
	"github.com/automoto/joy-ctrl/timing"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreatePhysicsWorld creates the physics collaborator entity.
func CreatePhysicsWorld(ecs *ecs.ECS) *donburi.Entry {
	entry := archetypes.PhysicsWorld.Spawn(ecs)
	world := physics.NewWorld(physics.Config{
		Gravity:    config.Physics.Gravity,
		Scale:      config.Physics.SpaceScale,
		HalfExtent: config.Physics.SpaceHalfExtent,
		Cell:       config.Physics.SpaceCell,
	})
	components.PhysicsWorld.Set(entry, &components.PhysicsWorldData{World: world})
	return entry
}

// CreateClock creates the simulation clock entity.
func CreateClock(ecs *ecs.ECS) *donburi.Entry {
	entry := archetypes.Clock.Spawn(ecs)
	components.Clock.Set(entry, &components.ClockData{Clock: timing.NewClock()})
	return entry
}
