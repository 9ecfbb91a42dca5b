package systems

import (
	"testing"
	"time"

	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/systems/factory"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// newTestECS builds the simulation entities without a window.
func newTestECS(t *testing.T) *ecs.ECS {
	t.Helper()
	e := ecs.NewECS(donburi.NewWorld())
	factory.CreateClock(e)
	factory.CreatePhysicsWorld(e)
	factory.CreateSettings(e)
	factory.CreateCamera(e)
	factory.CreateSpawner(e)
	return e
}

func advance(e *ecs.ECS, d time.Duration) {
	GetClock(e).Clock.Advance(d)
}

func getSpawner(t *testing.T, e *ecs.ECS) *components.SpawnerData {
	t.Helper()
	entry, ok := components.Spawner.First(e.World)
	require.True(t, ok)
	return components.Spawner.Get(entry)
}

func getCamera(t *testing.T, e *ecs.ECS) *components.CameraData {
	t.Helper()
	entry, ok := components.Camera.First(e.World)
	require.True(t, ok)
	return components.Camera.Get(entry)
}

func getSticks(t *testing.T, e *ecs.ECS) *components.SticksData {
	t.Helper()
	entry, ok := components.Sticks.First(e.World)
	require.True(t, ok)
	return components.Sticks.Get(entry)
}
