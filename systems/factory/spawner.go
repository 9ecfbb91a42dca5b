package factory

import (
	"github.com/automoto/joy-ctrl/archetypes"
	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/config"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func CreateSpawner(ecs *ecs.ECS) *donburi.Entry {
	spawner := archetypes.Spawner.Spawn(ecs)
	components.Spawner.Set(spawner, &components.SpawnerData{
		CanFire:  true,
		Cooldown: config.Spawner.Cooldown,
	})
	return spawner
}
