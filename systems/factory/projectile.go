package factory

import (
	"github.com/automoto/joy-ctrl/archetypes"
	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/physics"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateProjectile spawns a projectile entity and hands it to the physics
// world as a dynamic sphere seeded with the record's position and velocity.
func CreateProjectile(ecs *ecs.ECS, p components.Projectile) *donburi.Entry {
	e := archetypes.Projectile.Spawn(ecs)
	components.ProjectileRef.SetValue(e, components.ProjectileData{ID: p.ID})

	world := components.PhysicsWorld.Get(components.PhysicsWorld.MustFirst(ecs.World))
	id := world.Add(physics.BodySpec{
		Kind:     physics.Dynamic,
		Shape:    physics.Sphere(config.Spawner.ProjectileSize),
		Position: p.Position,
		Velocity: p.Velocity,
		Data:     e,
	})
	components.Body.SetValue(e, components.BodyData{ID: id})

	return e
}
