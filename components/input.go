package components

import (
	"math"

	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/yohamta/donburi"
)

// InputVector is a normalized analog stick reading.
type InputVector struct {
	X, Y float64
}

// NewInputVector clamps both axes to [-1, 1]; NaN and infinities read as 0.
func NewInputVector(x, y float64) InputVector {
	return InputVector{X: clampAxis(x), Y: clampAxis(y)}
}

func clampAxis(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// SticksData stores the two stick readings and pending commands from the
// input layer.
type SticksData struct {
	Sticks [cfg.StickCount]InputVector

	// FireRequested is consumed by the spawner on the next tick.
	FireRequested bool
}

// Move returns the movement stick.
func (s *SticksData) Move() InputVector {
	return s.Sticks[cfg.StickMove]
}

// Look returns the look stick.
func (s *SticksData) Look() InputVector {
	return s.Sticks[cfg.StickLook]
}

// SetStick records a move event for a stick.
func (s *SticksData) SetStick(id cfg.StickID, x, y float64) {
	s.Sticks[id] = NewInputVector(x, y)
}

// StopStick records a stop event for a stick.
func (s *SticksData) StopStick(id cfg.StickID) {
	s.Sticks[id] = InputVector{}
}

var Sticks = donburi.NewComponentType[SticksData]()
