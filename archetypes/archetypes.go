package archetypes

import (
	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Clock = newArchetype(
		components.Clock,
	)
	PhysicsWorld = newArchetype(
		components.PhysicsWorld,
	)
	Actor = newArchetype(
		tags.Actor,
		components.Actor,
		components.Body,
		components.Tint,
	)
	Wall = newArchetype(
		tags.Wall,
		components.Body,
	)
	Camera = newArchetype(
		components.Camera,
		components.Sticks,
	)
	Spawner = newArchetype(
		components.Spawner,
	)
	Projectile = newArchetype(
		tags.Projectile,
		components.ProjectileRef,
		components.Body,
	)
	Settings = newArchetype(
		components.Settings,
	)
	RelayStatus = newArchetype(
		components.RelayStatus,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
