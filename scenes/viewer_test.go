package scenes

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestScaleFrameResizes(t *testing.T) {
	src := solid(16, 9, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	dst := ScaleFrame(src, 64, 36)
	require.Equal(t, image.Rect(0, 0, 64, 36), dst.Bounds())
	assert.Equal(t, color.RGBA{R: 200, G: 10, B: 10, A: 255}, dst.RGBAAt(32, 18))
	assert.Len(t, dst.Pix, 64*36*4)
}

func TestFramePresenterKeepsLatest(t *testing.T) {
	p := &FramePresenter{}
	assert.Nil(t, p.Take())

	first := solid(1, 1, color.RGBA{A: 255})
	second := solid(1, 1, color.RGBA{R: 255, A: 255})
	p.Present(first)
	p.Present(second)

	assert.Same(t, second, p.Take())
	assert.Nil(t, p.Take())
	assert.Equal(t, 2, p.Frames())
}
