package config

import (
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi/ecs"
)

// Default is the only render layer the scenes use.
const Default ecs.LayerID = 0

// WindowConfig contains window and tick configuration
type WindowConfig struct {
	Width  int
	Height int
	Title  string
	TPS    int // simulation ticks per second
}

// ActorConfig contains the kinematic ball configuration
type ActorConfig struct {
	Amplitude float64 // x = sin(t) * Amplitude
	Radius    float64

	IdleColor      color.RGBA
	CollidingColor color.RGBA
	TintDuration   float32 // seconds for the colour blend on enter/exit
}

// CameraConfig contains camera rig configuration
type CameraConfig struct {
	StartPosition mgl64.Vec3
	MoveSpeed     float64 // world units per tick at full stick deflection
	RotSpeed      float64 // radians per tick at full stick deflection
	PitchEnabled  bool
	PitchLimit    float64

	FOV  float64 // vertical field of view in degrees
	Near float64
	Far  float64
}

// SpawnerConfig contains projectile spawner configuration
type SpawnerConfig struct {
	Cooldown       time.Duration
	SpawnDistance  float64 // distance in front of the camera
	LaunchSpeed    float64
	ProjectileSize float64 // sphere radius
	Color          color.RGBA
}

// PhysicsConfig contains the physics collaborator configuration
type PhysicsConfig struct {
	Gravity mgl64.Vec3

	// Broadphase grid. World units are scaled by SpaceScale before they are
	// placed into the resolv space, and shifted so that -HalfExtent maps to 0.
	SpaceScale      float64
	SpaceHalfExtent float64
	SpaceCell       int
}

// WallConfig describes the static wall the ball sweeps through
type WallConfig struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
	Color       color.RGBA
}

// SceneConfig contains static scene layout
type SceneConfig struct {
	Background color.RGBA
	GridColor  color.RGBA
	GridHalf   int     // grid spans [-GridHalf, GridHalf] on x and z
	GridY      float64 // height of the reference grid
	Wall       WallConfig
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	Overlay bool // show stick values and tick rate
}

// Global configuration instances
var Window WindowConfig
var Actor ActorConfig
var Camera CameraConfig
var Spawner SpawnerConfig
var Physics PhysicsConfig
var Scene SceneConfig
var Debug DebugConfig

// Shared RGBA color constants
var (
	White      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Blue       = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green      = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	Orange     = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	LightGrey  = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	Translucid = color.RGBA{R: 200, G: 200, B: 200, A: 128}
	HUDText    = color.RGBA{R: 51, G: 51, B: 51, A: 255}
	HUDPanel   = color.RGBA{R: 173, G: 216, B: 230, A: 51}
)

func init() {
	Window = WindowConfig{
		Width:  960,
		Height: 540,
		Title:  "joy-ctrl",
		TPS:    60,
	}

	Actor = ActorConfig{
		Amplitude:      3.0,
		Radius:         1.0,
		IdleColor:      Blue,
		CollidingColor: Green,
		TintDuration:   0.12,
	}

	Camera = CameraConfig{
		StartPosition: mgl64.Vec3{0, 0, 5},
		MoveSpeed:     0.1,
		RotSpeed:      0.05,
		PitchEnabled:  false,
		PitchLimit:    math.Pi / 2,
		FOV:           75,
		Near:          0.1,
		Far:           1000,
	}

	Spawner = SpawnerConfig{
		Cooldown:       300 * time.Millisecond,
		SpawnDistance:  1.0,
		LaunchSpeed:    35.0,
		ProjectileSize: 0.2,
		Color:          Orange,
	}

	Physics = PhysicsConfig{
		Gravity:         mgl64.Vec3{0, -9.81, 0},
		SpaceScale:      10,
		SpaceHalfExtent: 200,
		SpaceCell:       20,
	}

	Scene = SceneConfig{
		Background: White,
		GridColor:  LightGrey,
		GridHalf:   10,
		GridY:      -2.5,
		Wall: WallConfig{
			Center:      mgl64.Vec3{0, 0, 0},
			HalfExtents: mgl64.Vec3{0.25, 2.5, 1},
			Color:       Translucid,
		},
	}

	Debug = DebugConfig{
		Overlay: false,
	}
}
