package systems

import (
	"time"

	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/yohamta/donburi/ecs"
)

// FrameDuration is the simulated time covered by one tick.
func FrameDuration() time.Duration {
	return time.Second / time.Duration(cfg.Window.TPS)
}

// TickTime is the simulated time at the end of tick n. It is computed from
// n directly so that whole multiples of a second land exactly.
func TickTime(n uint64) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(cfg.Window.TPS)
}

// UpdateClock advances the simulation clock by one tick and runs any
// deferred callbacks that became due. Must run first in the system order.
func UpdateClock(ecs *ecs.ECS) {
	clock := GetClock(ecs)
	clock.Tick++
	clock.Clock.Advance(TickTime(clock.Tick) - TickTime(clock.Tick-1))
}

// GetClock returns the singleton clock component.
func GetClock(ecs *ecs.ECS) *components.ClockData {
	return components.Clock.Get(components.Clock.MustFirst(ecs.World))
}
