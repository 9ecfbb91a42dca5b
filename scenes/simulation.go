package scenes

import (
	"image"
	"log"
	"sync"
	"time"

	"github.com/automoto/joy-ctrl/archetypes"
	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/relay"
	"github.com/automoto/joy-ctrl/systems"
	"github.com/automoto/joy-ctrl/systems/factory"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// SimulationScene is the interactive scene: the swinging ball, the wall,
// the camera rig and the projectile spawner.
type SimulationScene struct {
	ecs  *ecs.ECS
	once sync.Once

	capture  *relay.FrameSlot // nil when the relay is off
	streamer *relay.Streamer  // nil when the relay is off
	saved    *systems.SavedSettings
}

// NewSimulationScene creates the scene. capture receives a copy of the
// rendered canvas at its own rate; streamer, if set, is shown in the HUD.
func NewSimulationScene(capture *relay.FrameSlot, streamer *relay.Streamer, saved *systems.SavedSettings) *SimulationScene {
	return &SimulationScene{capture: capture, streamer: streamer, saved: saved}
}

func (s *SimulationScene) Update() {
	s.once.Do(s.configure)
	s.ecs.Update()
}

func (s *SimulationScene) Draw(screen *ebiten.Image) {
	if s.ecs == nil {
		screen.Fill(cfg.Scene.Background)
		return
	}
	s.ecs.Draw(screen)

	if s.capture != nil && s.capture.Due(time.Now()) {
		s.capture.Store(readCanvas(screen))
	}
}

// readCanvas copies the rendered screen into a new image.
func readCanvas(screen *ebiten.Image) *image.RGBA {
	img := image.NewRGBA(screen.Bounds())
	screen.ReadPixels(img.Pix)
	return img
}

func (s *SimulationScene) configure() {
	ecs := ecs.NewECS(donburi.NewWorld())

	// Order matters: input feeds the rig and the spawner, the clock runs
	// deferred callbacks before anyone fires, physics sees the new poses.
	ecs.AddSystem(systems.UpdateInput)
	ecs.AddSystem(systems.UpdateClock)
	ecs.AddSystem(systems.UpdateActor)
	ecs.AddSystem(systems.UpdateCameraRig)
	ecs.AddSystem(systems.UpdateSpawner)
	ecs.AddSystem(systems.UpdatePhysics)
	ecs.AddSystem(systems.UpdateTint)
	if s.streamer != nil {
		ecs.AddSystem(systems.NewUpdateRelayStatus(s.streamer.Session(), s.streamer.RemoteID))
	}

	ecs.AddRenderer(cfg.Default, systems.DrawScene)
	ecs.AddRenderer(cfg.Default, systems.DrawHUD)
	ecs.AddRenderer(cfg.Default, systems.DrawDebug)

	s.ecs = ecs

	factory.CreateClock(s.ecs)
	world := components.PhysicsWorld.Get(factory.CreatePhysicsWorld(s.ecs))
	factory.CreateSettings(s.ecs)
	systems.ApplySavedSettings(s.ecs, s.saved)
	factory.CreateCamera(s.ecs)
	factory.CreateSpawner(s.ecs)
	factory.CreateWall(s.ecs, cfg.Scene.Wall.Center, cfg.Scene.Wall.HalfExtents)
	factory.CreateActor(s.ecs)
	if s.streamer != nil {
		archetypes.RelayStatus.Spawn(s.ecs)
	}

	observer := systems.NewCollisionObserver(s.ecs, func(_ *donburi.Entry, total uint64) {
		log.Printf("[collision] enter #%d", total)
	})
	if err := world.Subscribe(observer); err != nil {
		panic("failed to subscribe collision observer: " + err.Error())
	}
}
