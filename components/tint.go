package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// TintData blends the actor colour between idle (0) and colliding (1).
type TintData struct {
	Blend float32
	Tween *gween.Tween // nil when no transition is running
}

var Tint = donburi.NewComponentType[TintData]()
