package systems

import (
	"github.com/automoto/joy-ctrl/components"
	"github.com/yohamta/donburi/ecs"
)

// UpdatePhysics steps the physics world by one tick. Collision notifications
// are delivered to the registered observer from inside the step.
func UpdatePhysics(ecs *ecs.ECS) {
	entry, ok := components.PhysicsWorld.First(ecs.World)
	if !ok {
		return
	}
	components.PhysicsWorld.Get(entry).Step(FrameDuration().Seconds())
}
