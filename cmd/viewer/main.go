// Command viewer waits for a joy-ctrl streamer to call and shows its canvas.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/fonts"
	"github.com/automoto/joy-ctrl/relay"
	"github.com/automoto/joy-ctrl/relay/peerjs"
	"github.com/automoto/joy-ctrl/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"
)

type Game struct {
	scene *scenes.ViewerScene
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	return config.Window.Width, config.Window.Height
}

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	if err := fonts.LoadFontWithSize(fonts.Regular, goregular.TTF, 14); err != nil {
		log.Printf("Warning: Could not load font: %v", err)
	}

	conn, err := peerjs.New(peerjs.OptionsFromConfig())
	if err != nil {
		log.Fatalf("Failed to create relay: %v", err)
	}
	presenter := &scenes.FramePresenter{}
	receiver, err := relay.NewReceiver(conn, presenter)
	if err != nil {
		log.Fatalf("Failed to create receiver: %v", err)
	}

	id, err := receiver.Start(context.Background())
	if err != nil {
		_ = receiver.Close()
		log.Fatalf("Failed to open session: %v", err)
	}
	fmt.Printf("viewer id: %s\nrun: joy-ctrl -peer %s\n", id, id)

	ebiten.SetWindowSize(config.Window.Width, config.Window.Height)
	ebiten.SetWindowTitle(config.Window.Title + " viewer")
	runErr := ebiten.RunGame(&Game{scene: scenes.NewViewerScene(receiver, presenter)})
	if err := errors.Join(runErr, receiver.Close()); err != nil {
		log.Fatal(err)
	}
}
