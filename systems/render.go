package systems

import (
	"image/color"
	"math"

	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/physics"
	"github.com/automoto/joy-ctrl/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

const lineWidth = 1.5

// Projector maps world positions onto the screen for one camera pose.
type Projector struct {
	viewProj      mgl64.Mat4
	width, height float64
	focal         float64 // pixels per world unit at depth 1
	near          float64
}

// NewProjector builds the perspective projection for camera on a
// width x height surface.
func NewProjector(camera *components.CameraData, width, height int) Projector {
	fovy := mgl64.DegToRad(cfg.Camera.FOV)
	aspect := float64(width) / float64(height)
	proj := mgl64.Perspective(fovy, aspect, cfg.Camera.Near, cfg.Camera.Far)
	return Projector{
		viewProj: proj.Mul4(camera.View()),
		width:    float64(width),
		height:   float64(height),
		focal:    float64(height) / 2 / math.Tan(fovy/2),
		near:     cfg.Camera.Near,
	}
}

// Project returns the screen position and view depth of p. ok is false for
// points behind the near plane.
func (p Projector) Project(v mgl64.Vec3) (x, y, depth float64, ok bool) {
	c := p.viewProj.Mul4x1(v.Vec4(1))
	if c.W() < p.near {
		return 0, 0, 0, false
	}
	x, y = p.toScreen(c)
	return x, y, c.W(), true
}

// Scale returns the on-screen size of a world length seen at depth.
func (p Projector) Scale(length, depth float64) float64 {
	return length * p.focal / depth
}

func (p Projector) toScreen(c mgl64.Vec4) (float64, float64) {
	nx, ny := c.X()/c.W(), c.Y()/c.W()
	return (nx + 1) / 2 * p.width, (1 - ny) / 2 * p.height
}

// line draws the part of the segment a-b that lies in front of the camera.
func (p Projector) line(screen *ebiten.Image, a, b mgl64.Vec3, clr color.Color) {
	ca := p.viewProj.Mul4x1(a.Vec4(1))
	cb := p.viewProj.Mul4x1(b.Vec4(1))
	if ca.W() < p.near && cb.W() < p.near {
		return
	}
	if ca.W() < p.near {
		ca = ca.Add(cb.Sub(ca).Mul((p.near - ca.W()) / (cb.W() - ca.W())))
	} else if cb.W() < p.near {
		cb = cb.Add(ca.Sub(cb).Mul((p.near - cb.W()) / (ca.W() - cb.W())))
	}
	x0, y0 := p.toScreen(ca)
	x1, y1 := p.toScreen(cb)
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), lineWidth, clr, true)
}

func (p Projector) sphere(screen *ebiten.Image, center mgl64.Vec3, radius float64, clr color.Color) {
	x, y, depth, ok := p.Project(center)
	if !ok {
		return
	}
	r := p.Scale(radius, depth)
	vector.FillCircle(screen, float32(x), float32(y), float32(r), clr, true)
}

// DrawScene renders the reference grid, the actor, the projectiles and the
// wall from the camera's point of view.
func DrawScene(ecs *ecs.ECS, screen *ebiten.Image) {
	screen.Fill(cfg.Scene.Background)

	cameraEntry, ok := components.Camera.First(ecs.World)
	if !ok {
		return // No camera yet
	}
	worldEntry, ok := components.PhysicsWorld.First(ecs.World)
	if !ok {
		return
	}
	world := components.PhysicsWorld.Get(worldEntry)
	width, height := screen.Bounds().Dx(), screen.Bounds().Dy()
	proj := NewProjector(components.Camera.Get(cameraEntry), width, height)

	drawGrid(screen, proj)

	tags.Actor.Each(ecs.World, func(e *donburi.Entry) {
		actor := components.Actor.Get(e)
		blend := float32(actor.Visual)
		if e.HasComponent(components.Tint) {
			blend = components.Tint.Get(e).Blend
		}
		clr := lerpColor(cfg.Actor.IdleColor, cfg.Actor.CollidingColor, blend)
		proj.sphere(screen, actor.Position, cfg.Actor.Radius, clr)
	})

	tags.Projectile.Each(ecs.World, func(e *donburi.Entry) {
		body, ok := world.Body(components.Body.Get(e).ID)
		if !ok {
			return
		}
		proj.sphere(screen, body.Position, body.Shape.Radius, cfg.Spawner.Color)
	})

	tags.Wall.Each(ecs.World, func(e *donburi.Entry) {
		body, ok := world.Body(components.Body.Get(e).ID)
		if !ok {
			return
		}
		drawBox(screen, proj, body, cfg.Scene.Wall.Color)
	})
}

func drawGrid(screen *ebiten.Image, proj Projector) {
	n := float64(cfg.Scene.GridHalf)
	y := cfg.Scene.GridY
	for i := -cfg.Scene.GridHalf; i <= cfg.Scene.GridHalf; i++ {
		f := float64(i)
		proj.line(screen, mgl64.Vec3{f, y, -n}, mgl64.Vec3{f, y, n}, cfg.Scene.GridColor)
		proj.line(screen, mgl64.Vec3{-n, y, f}, mgl64.Vec3{n, y, f}, cfg.Scene.GridColor)
	}
}

// boxEdges lists the corner index pairs of a box's twelve edges. Corner i
// has bit 0 for +x, bit 1 for +y and bit 2 for +z.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func drawBox(screen *ebiten.Image, proj Projector, body *physics.Body, clr color.Color) {
	half := body.Shape.Extents()
	var corners [8]mgl64.Vec3
	for i := range corners {
		c := body.Position
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				c[axis] += half[axis]
			} else {
				c[axis] -= half[axis]
			}
		}
		corners[i] = c
	}
	for _, edge := range boxEdges {
		proj.line(screen, corners[edge[0]], corners[edge[1]], clr)
	}
}

func lerpColor(a, b color.RGBA, t float32) color.RGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
