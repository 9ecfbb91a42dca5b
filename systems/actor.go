package systems

import (
	"log"
	"math"

	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// ActorPosition is the kinematic path of the actor at elapsed time t.
func ActorPosition(t float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(t) * cfg.Actor.Amplitude, 0, 0}
}

// UpdateActor moves every actor along its path and tells the physics world
// about the new pose. The physics world does not integrate actors.
func UpdateActor(ecs *ecs.ECS) {
	t := GetClock(ecs).Elapsed()
	world := components.PhysicsWorld.Get(components.PhysicsWorld.MustFirst(ecs.World))

	tags.Actor.Each(ecs.World, func(e *donburi.Entry) {
		actor := components.Actor.Get(e)
		actor.Position = ActorPosition(t)

		body := components.Body.Get(e)
		if err := world.SetKinematicTranslation(body.ID, actor.Position); err != nil {
			log.Printf("[actor] pose update for body %d: %v", body.ID, err)
		}
	})
}
