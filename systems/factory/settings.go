package factory

import (
	"github.com/automoto/joy-ctrl/archetypes"
	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/config"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func CreateSettings(ecs *ecs.ECS) *donburi.Entry {
	settings := archetypes.Settings.Spawn(ecs)
	components.Settings.SetValue(settings, components.SettingsData{
		Debug:        config.Debug.Overlay,
		PitchEnabled: config.Camera.PitchEnabled,
	})
	return settings
}
