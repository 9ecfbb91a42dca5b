package components

import "github.com/yohamta/donburi"

// SettingsData holds user toggles that survive restarts.
type SettingsData struct {
	Debug        bool
	PitchEnabled bool
	LastPeerID   string
}

var Settings = donburi.NewComponentType[SettingsData]()
