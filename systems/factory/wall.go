package factory

import (
	"github.com/automoto/joy-ctrl/archetypes"
	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/physics"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateWall adds a fixed box to the scene.
func CreateWall(ecs *ecs.ECS, center, halfExtents mgl64.Vec3) *donburi.Entry {
	wall := archetypes.Wall.Spawn(ecs)

	world := components.PhysicsWorld.Get(components.PhysicsWorld.MustFirst(ecs.World))
	id := world.Add(physics.BodySpec{
		Kind:     physics.Fixed,
		Shape:    physics.Box(halfExtents),
		Position: center,
		Data:     wall, // Link for O(1) lookup
	})
	components.Body.SetValue(wall, components.BodyData{ID: id})

	return wall
}
