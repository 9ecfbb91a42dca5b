package systems

import (
	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/relay"
	"github.com/yohamta/donburi/ecs"
)

// NewUpdateRelayStatus creates a system that mirrors session into the
// RelayStatus component once per tick, so renderers never touch the relay.
func NewUpdateRelayStatus(session *relay.Session, remoteID func() string) ecs.System {
	return func(e *ecs.ECS) {
		entry, ok := components.RelayStatus.First(e.World)
		if !ok {
			return
		}
		status := components.RelayStatus.Get(entry)
		status.State = session.State().String()
		status.LocalID = session.LocalID()
		if remoteID != nil {
			status.RemoteID = remoteID()
		}
		status.LastErr = ""
		if err := session.Err(); err != nil {
			status.LastErr = err.Error()
		}
	}
}
