package systems

import (
	"math"

	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Reusable slice for gamepad IDs to avoid allocations
var gamepadIDs []ebiten.GamepadID

// UpdateInput polls the gamepad and keyboard and turns them into stick
// move/stop events and a fire request.
// Must run BEFORE UpdateCameraRig and UpdateSpawner in the system order.
func UpdateInput(ecs *ecs.ECS) {
	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])

	fire := fireJustPressed()
	components.Sticks.Each(ecs.World, func(e *donburi.Entry) {
		sticks := components.Sticks.Get(e)
		for id, binding := range cfg.Input.Sticks {
			x, y, active := readStick(binding)
			if active {
				sticks.SetStick(cfg.StickID(id), x, y)
			} else {
				sticks.StopStick(cfg.StickID(id))
			}
		}
		if fire {
			sticks.FireRequested = true
		}
	})

	for _, key := range cfg.Input.DebugKeys {
		if inpututil.IsKeyJustPressed(key) {
			ToggleDebug(ecs)
			break
		}
	}
}

// readStick returns the stick position with y pointing forward. The first
// gamepad outside the deadzone wins, the keyboard is the fallback.
func readStick(binding cfg.StickBinding) (x, y float64, active bool) {
	for _, id := range gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		ax := ebiten.StandardGamepadAxisValue(id, binding.AxisX)
		ay := ebiten.StandardGamepadAxisValue(id, binding.AxisY)
		// Gamepad vertical axes grow downwards.
		if x, y, ok := applyDeadzone(ax, -ay, cfg.Input.AnalogDeadzone); ok {
			return x, y, true
		}
	}

	x = keyAxis(binding.Left, binding.Right)
	y = keyAxis(binding.Down, binding.Up)
	return x, y, x != 0 || y != 0
}

// applyDeadzone zeroes readings whose magnitude is below deadzone.
func applyDeadzone(x, y, deadzone float64) (float64, float64, bool) {
	if math.Hypot(x, y) < deadzone {
		return 0, 0, false
	}
	return x, y, true
}

func keyAxis(negative, positive []ebiten.Key) float64 {
	var v float64
	if anyKeyPressed(negative) {
		v--
	}
	if anyKeyPressed(positive) {
		v++
	}
	return v
}

func anyKeyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func fireJustPressed() bool {
	for _, k := range cfg.Input.FireKeys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	for _, id := range gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for _, btn := range cfg.Input.FireButtons {
			if inpututil.IsStandardGamepadButtonJustPressed(id, btn) {
				return true
			}
		}
	}
	return false
}
