package systems

import (
	"encoding/json"
	"log"

	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/quasilyte/gdata"
	"github.com/yohamta/donburi/ecs"
)

// SavedSettings represents the settings data stored on disk
type SavedSettings struct {
	Debug        bool   `json:"debug"`
	PitchEnabled bool   `json:"pitchEnabled"`
	LastPeerID   string `json:"lastPeerId"`
}

const settingsKey = "settings"

var gdataManager *gdata.Manager

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence(appName string) error {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	return nil
}

// LoadSettings loads settings from disk. It returns nil when persistence is
// unavailable or nothing was saved yet.
func LoadSettings() (*SavedSettings, error) {
	if gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem(settingsKey)
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("Warning: Could not parse saved settings: %v", err)
		return nil, err
	}
	return &settings, nil
}

// SaveSettings saves settings to disk
func SaveSettings(s *SavedSettings) error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := gdataManager.SaveItem(settingsKey, data); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
		return err
	}
	return nil
}

// GetSettings returns the singleton settings component, or the configured
// defaults if the scene has none.
func GetSettings(ecs *ecs.ECS) *components.SettingsData {
	if entry, ok := components.Settings.First(ecs.World); ok {
		return components.Settings.Get(entry)
	}
	return &components.SettingsData{
		Debug:        cfg.Debug.Overlay,
		PitchEnabled: cfg.Camera.PitchEnabled,
	}
}

// ApplySavedSettings copies saved values into the scene's settings.
func ApplySavedSettings(ecs *ecs.ECS, saved *SavedSettings) {
	if saved == nil {
		return
	}
	settings := GetSettings(ecs)
	settings.Debug = saved.Debug
	settings.PitchEnabled = saved.PitchEnabled
	settings.LastPeerID = saved.LastPeerID
}

// SaveCurrentSettings writes the scene's settings to disk.
func SaveCurrentSettings(ecs *ecs.ECS) {
	s := GetSettings(ecs)
	_ = SaveSettings(&SavedSettings{
		Debug:        s.Debug,
		PitchEnabled: s.PitchEnabled,
		LastPeerID:   s.LastPeerID,
	})
}

// ToggleDebug flips the debug overlay and persists the choice.
func ToggleDebug(ecs *ecs.ECS) {
	s := GetSettings(ecs)
	s.Debug = !s.Debug
	SaveCurrentSettings(ecs)
}
