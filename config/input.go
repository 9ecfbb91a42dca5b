package config

import "github.com/hajimehoshi/ebiten/v2"

// StickID identifies one of the two analog sticks
type StickID int

const (
	StickMove StickID = iota
	StickLook
	StickCount // Must be last - used for array sizing
)

// StickBinding maps a stick onto gamepad axes and a keyboard fallback
type StickBinding struct {
	AxisX ebiten.StandardGamepadAxis
	AxisY ebiten.StandardGamepadAxis

	// Keyboard fallback: each pressed key pushes the stick fully to one side
	Left  []ebiten.Key
	Right []ebiten.Key
	Up    []ebiten.Key
	Down  []ebiten.Key
}

// InputConfig holds all input mappings
type InputConfig struct {
	Sticks [StickCount]StickBinding

	FireKeys    []ebiten.Key
	FireButtons []ebiten.StandardGamepadButton

	DebugKeys []ebiten.Key
	PauseKeys []ebiten.Key // viewer playback

	// Deadzone for analog stick input (0.0 to 1.0)
	AnalogDeadzone float64
}

// Input is the global input configuration
var Input InputConfig

func init() {
	Input = InputConfig{
		AnalogDeadzone: 0.1,
		Sticks: [StickCount]StickBinding{
			StickMove: {
				AxisX: ebiten.StandardGamepadAxisLeftStickHorizontal,
				AxisY: ebiten.StandardGamepadAxisLeftStickVertical,
				Left:  []ebiten.Key{ebiten.KeyA},
				Right: []ebiten.Key{ebiten.KeyD},
				Up:    []ebiten.Key{ebiten.KeyW},
				Down:  []ebiten.Key{ebiten.KeyS},
			},
			StickLook: {
				AxisX: ebiten.StandardGamepadAxisRightStickHorizontal,
				AxisY: ebiten.StandardGamepadAxisRightStickVertical,
				Left:  []ebiten.Key{ebiten.KeyLeft},
				Right: []ebiten.Key{ebiten.KeyRight},
				Up:    []ebiten.Key{ebiten.KeyUp},
				Down:  []ebiten.Key{ebiten.KeyDown},
			},
		},
		FireKeys: []ebiten.Key{ebiten.KeySpace},
		// Right trigger / R2 and A / Cross
		FireButtons: []ebiten.StandardGamepadButton{
			ebiten.StandardGamepadButtonFrontBottomRight,
			ebiten.StandardGamepadButtonRightBottom,
		},
		DebugKeys: []ebiten.Key{ebiten.KeyF1},
		PauseKeys: []ebiten.Key{ebiten.KeyP},
	}
}
