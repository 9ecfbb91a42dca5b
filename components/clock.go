package components

import (
	"github.com/automoto/joy-ctrl/timing"
	"github.com/yohamta/donburi"
)

// ClockData is the per-frame context: the virtual clock and the tick count.
type ClockData struct {
	Clock *timing.Clock
	Tick  uint64
}

// Elapsed returns the elapsed simulation time in seconds.
func (c *ClockData) Elapsed() float64 {
	return c.Clock.Elapsed()
}

var Clock = donburi.NewComponentType[ClockData]()
