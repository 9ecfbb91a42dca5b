package factory

import (
	"github.com/automoto/joy-ctrl/archetypes"
	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/config"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func CreateCamera(ecs *ecs.ECS) *donburi.Entry {
	camera := archetypes.Camera.Spawn(ecs)
	components.Camera.Set(camera, &components.CameraData{
		Position: config.Camera.StartPosition,
	})
	return camera
}
