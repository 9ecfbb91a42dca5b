package scenes

import (
	"fmt"
	"image"
	"sync"

	cfg "github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/fonts"
	"github.com/automoto/joy-ctrl/relay"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/draw"
)

// FramePresenter keeps the most recent received frame for the render loop.
type FramePresenter struct {
	mu     sync.Mutex
	latest image.Image
	frames int
}

// Present implements relay.Presenter.
func (p *FramePresenter) Present(frame image.Image) {
	p.mu.Lock()
	p.latest = frame
	p.frames++
	p.mu.Unlock()
}

// Take returns the frame stored since the last call, or nil.
func (p *FramePresenter) Take() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	frame := p.latest
	p.latest = nil
	return frame
}

// Frames returns how many frames were presented.
func (p *FramePresenter) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// ScaleFrame scales src to a w x h RGBA image.
func ScaleFrame(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// ViewerScene shows the stream received by a relay.Receiver.
type ViewerScene struct {
	receiver  *relay.Receiver
	presenter *FramePresenter
	canvas    *ebiten.Image
}

// NewViewerScene creates a viewer for receiver, whose frames must be
// delivered to presenter.
func NewViewerScene(receiver *relay.Receiver, presenter *FramePresenter) *ViewerScene {
	return &ViewerScene{
		receiver:  receiver,
		presenter: presenter,
		canvas:    ebiten.NewImage(cfg.Window.Width, cfg.Window.Height),
	}
}

func (v *ViewerScene) Update() {
	for _, key := range cfg.Input.PauseKeys {
		if inpututil.IsKeyJustPressed(key) {
			v.togglePause()
			break
		}
	}

	if frame := v.presenter.Take(); frame != nil {
		v.canvas.WritePixels(ScaleFrame(frame, cfg.Window.Width, cfg.Window.Height).Pix)
	}
}

func (v *ViewerScene) togglePause() {
	if v.receiver.Paused() {
		v.receiver.Resume()
	} else {
		v.receiver.Pause()
	}
}

func (v *ViewerScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.Scene.Background)
	screen.DrawImage(v.canvas, nil)

	if !fonts.Loaded(fonts.Regular) {
		return
	}
	status := fmt.Sprintf("Relay: %s  frames: %d", v.receiver.Session().State(), v.presenter.Frames())
	if v.receiver.Paused() {
		status += "  (paused)"
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, float64(cfg.Window.Height-22))
	op.ColorScale.ScaleWithColor(cfg.HUDText)
	text.Draw(screen, status, fonts.Regular.Face(), op)
}
