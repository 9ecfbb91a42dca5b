package systems

import (
	"fmt"
	"image/color"

	"github.com/automoto/joy-ctrl/components"
	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/fonts"
	"github.com/automoto/joy-ctrl/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

const (
	hudMargin     = 10
	hudLineHeight = 16
	hudPanelWidth = 220
)

var hudTextOp = &text.DrawOptions{}

// DrawHUD renders the collision counter and the relay status in the
// top-left corner.
func DrawHUD(ecs *ecs.ECS, screen *ebiten.Image) {
	if !fonts.Loaded(fonts.Regular) {
		return
	}

	var lines []string
	if entry, ok := tags.Actor.First(ecs.World); ok {
		lines = append(lines, fmt.Sprintf("Collisions: %d", components.Actor.Get(entry).Collisions))
	}
	if entry, ok := components.RelayStatus.First(ecs.World); ok {
		lines = append(lines, relayLine(components.RelayStatus.Get(entry)))
	}
	drawPanel(screen, hudMargin, hudMargin, lines)
}

func relayLine(s *components.RelayStatusData) string {
	switch {
	case s.LastErr != "":
		return fmt.Sprintf("Relay: %s (%s)", s.State, s.LastErr)
	case s.RemoteID != "":
		return fmt.Sprintf("Relay: %s -> %s", s.State, s.RemoteID)
	case s.LocalID != "":
		return fmt.Sprintf("Relay: %s as %s", s.State, s.LocalID)
	}
	return "Relay: " + s.State
}

func drawPanel(screen *ebiten.Image, x, y float64, lines []string) {
	if len(lines) == 0 {
		return
	}
	vector.FillRect(screen,
		float32(x-4), float32(y-2),
		hudPanelWidth, float32(len(lines)*hudLineHeight+4),
		cfg.HUDPanel, false)

	face := fonts.Regular.Face()
	for i, line := range lines {
		drawText(screen, line, face, x, y+float64(i*hudLineHeight), cfg.HUDText)
	}
}

func drawText(screen *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	hudTextOp.GeoM.Reset()
	hudTextOp.ColorScale.Reset()
	hudTextOp.GeoM.Translate(x, y)
	hudTextOp.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, hudTextOp)
}
