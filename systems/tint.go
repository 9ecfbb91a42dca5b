package systems

import (
	"github.com/automoto/joy-ctrl/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateTint runs the colour transitions started by the collision observer.
func UpdateTint(ecs *ecs.ECS) {
	dt := float32(FrameDuration().Seconds())
	components.Tint.Each(ecs.World, func(e *donburi.Entry) {
		tint := components.Tint.Get(e)
		if tint.Tween == nil {
			return
		}
		value, finished := tint.Tween.Update(dt)
		tint.Blend = value
		if finished {
			tint.Tween = nil
		}
	})
}
