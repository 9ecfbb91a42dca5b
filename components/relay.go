package components

import "github.com/yohamta/donburi"

// RelayStatusData mirrors the peer relay for the HUD. It is written from the
// tick that drains relay events, never from network goroutines.
type RelayStatusData struct {
	State    string
	LocalID  string
	RemoteID string
	LastErr  string
}

var RelayStatus = donburi.NewComponentType[RelayStatusData]()
