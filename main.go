package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"io"
	"log"

	"github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/fonts"
	"github.com/automoto/joy-ctrl/relay"
	"github.com/automoto/joy-ctrl/relay/peerjs"
	"github.com/automoto/joy-ctrl/scenes"
	"github.com/automoto/joy-ctrl/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

func NewGame(scene Scene) *Game {
	if err := fonts.LoadFontWithSize(fonts.Regular, goregular.TTF, 14); err != nil {
		log.Printf("Warning: Could not load font: %v", err)
	}
	return &Game{scene: scene}
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.Window.Width, config.Window.Height)
	return config.Window.Width, config.Window.Height
}

func main() {
	peer := flag.String("peer", "", "identifier of the viewer to stream the canvas to")
	reconnect := flag.Bool("reconnect", false, "stream to the last viewer used")
	debug := flag.Bool("debug", false, "show the debug overlay")
	pitch := flag.Bool("pitch", false, "let the look stick pitch the camera")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	// Initialize persistence and load saved settings
	if err := systems.InitPersistence("joy-ctrl"); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	saved, err := systems.LoadSettings()
	if err != nil || saved == nil {
		saved = &systems.SavedSettings{
			Debug:        config.Debug.Overlay,
			PitchEnabled: config.Camera.PitchEnabled,
		}
	}
	if *debug {
		saved.Debug = true
	}
	if *pitch {
		saved.PitchEnabled = true
	}
	if *reconnect && *peer == "" {
		*peer = saved.LastPeerID
	}

	ebiten.SetWindowSize(config.Window.Width, config.Window.Height)
	ebiten.SetWindowTitle(config.Window.Title)
	ebiten.SetTPS(config.Window.TPS)

	var (
		capture  *relay.FrameSlot
		streamer *relay.Streamer
	)
	if *peer != "" {
		saved.LastPeerID = *peer
		if err := systems.SaveSettings(saved); err != nil {
			log.Printf("Warning: Could not save settings: %v", err)
		}

		capture = relay.NewFrameSlot(config.Relay.FrameRate)
		streamer, err = newStreamer(capture)
		if err != nil {
			log.Fatalf("Failed to create relay: %v", err)
		}
		go runStreamer(streamer, *peer)
	}

	scene := scenes.NewSimulationScene(capture, streamer, saved)
	play := func() error { return ebiten.RunGame(NewGame(scene)) }

	var closers []io.Closer
	if streamer != nil {
		closers = append(closers, streamer)
	}
	if err := runThenClose(play, closers...); err != nil {
		log.Fatal(err)
	}
}

// runThenClose runs play and then closes every closer in order, whatever
// play returned. The errors of both are joined.
func runThenClose(play func() error, closers ...io.Closer) error {
	errs := []error{play()}
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func newStreamer(capture *relay.FrameSlot) (*relay.Streamer, error) {
	conn, err := peerjs.New(peerjs.OptionsFromConfig())
	if err != nil {
		return nil, err
	}
	return relay.NewStreamer(conn, capture, config.Relay.FrameRate)
}

// runStreamer opens the session and dials the viewer. Failures are terminal
// and shown in the HUD.
func runStreamer(s *relay.Streamer, peer string) {
	ctx := context.Background()
	id, err := s.Start(ctx)
	if err != nil {
		log.Printf("[relay] session failed: %v", err)
		return
	}
	log.Printf("[relay] local id %s, connecting to %s", id, peer)
	if err := s.Connect(ctx, peer); err != nil {
		log.Printf("[relay] connect failed: %v", err)
	}
}
