package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// CameraData is the camera pose. Yaw turns around +Y, pitch tilts up; at
// zero yaw and pitch the camera looks down -Z.
type CameraData struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
}

// Forward returns the unit view direction.
func (c *CameraData) Forward() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{
		-math.Sin(c.Yaw) * cp,
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw) * cp,
	}
}

// Right returns the unit right vector, always horizontal.
func (c *CameraData) Right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(c.Yaw), 0, -math.Sin(c.Yaw)}
}

// Up returns the unit up vector of the camera basis.
func (c *CameraData) Up() mgl64.Vec3 {
	return c.Right().Cross(c.Forward()).Normalize()
}

// View returns the world-to-camera matrix.
func (c *CameraData) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Forward()), c.Up())
}

var Camera = donburi.NewComponentType[CameraData]()
