package systems

import (
	"fmt"

	"github.com/automoto/joy-ctrl/components"
	"github.com/automoto/joy-ctrl/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// DrawDebug shows the raw stick values and the tick rate when the debug
// overlay is on.
func DrawDebug(ecs *ecs.ECS, screen *ebiten.Image) {
	if !GetSettings(ecs).Debug || !fonts.Loaded(fonts.Regular) {
		return
	}

	lines := []string{fmt.Sprintf("TPS: %.1f", ebiten.ActualTPS())}
	if entry, ok := components.Sticks.First(ecs.World); ok {
		sticks := components.Sticks.Get(entry)
		lines = append(lines,
			"Move "+FormatStick(sticks.Move()),
			"Look "+FormatStick(sticks.Look()),
		)
	}
	if entry, ok := components.Spawner.First(ecs.World); ok {
		spawner := components.Spawner.Get(entry)
		lines = append(lines, fmt.Sprintf("Projectiles: %d ready=%t", len(spawner.Projectiles), spawner.CanFire))
	}
	if entry, ok := components.Camera.First(ecs.World); ok {
		c := components.Camera.Get(entry)
		lines = append(lines, fmt.Sprintf("Cam %.1f %.1f %.1f yaw %.2f", c.Position.X(), c.Position.Y(), c.Position.Z(), c.Yaw))
	}

	y := float64(screen.Bounds().Dy()) - float64(len(lines)*hudLineHeight) - hudMargin
	drawPanel(screen, hudMargin, y, lines)
}

// FormatStick prints a stick reading with one decimal per axis.
func FormatStick(v components.InputVector) string {
	return fmt.Sprintf("x: %.1f y: %.1f", v.X, v.Y)
}
