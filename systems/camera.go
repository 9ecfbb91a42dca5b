package systems

import (
	"math"

	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateCameraRig applies both sticks to the camera pose once per tick.
func UpdateCameraRig(ecs *ecs.ECS) {
	pitch := cfg.Camera.PitchEnabled
	if entry, ok := components.Settings.First(ecs.World); ok {
		pitch = components.Settings.Get(entry).PitchEnabled
	}

	components.Camera.Each(ecs.World, func(e *donburi.Entry) {
		camera := components.Camera.Get(e)
		sticks := components.Sticks.Get(e)
		StepCamera(camera, sticks.Move(), sticks.Look(), pitch)
	})
}

// StepCamera moves the camera on the ground plane with the move stick and
// turns it with the look stick. It is a pure function of its inputs.
func StepCamera(camera *components.CameraData, move, look components.InputVector, pitchEnabled bool) {
	forward := camera.Forward()
	forward[1] = 0
	forward = safeNormalize(forward)
	right := safeNormalize(camera.Right())

	delta := forward.Mul(move.Y * cfg.Camera.MoveSpeed).
		Add(right.Mul(move.X * cfg.Camera.MoveSpeed))
	camera.Position = camera.Position.Add(delta)

	camera.Yaw -= look.X * cfg.Camera.RotSpeed
	if pitchEnabled {
		limit := cfg.Camera.PitchLimit
		camera.Pitch = math.Max(-limit, math.Min(limit, camera.Pitch+look.Y*cfg.Camera.RotSpeed))
	}
}

func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	if v.LenSqr() == 0 {
		return v
	}
	return v.Normalize()
}
