package peerjs

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	data, err := EncodeFrame(img, 80)
	require.NoError(t, err)
	return data
}

func TestPacketizeMarksLastPacket(t *testing.T) {
	frame := testFrame(t)
	p := NewPacketizer(7, 100, 65534)

	packets := p.Packetize(frame, 3000)
	require.Equal(t, (len(frame)+99)/100, len(packets))

	for i, pkt := range packets {
		assert.Equal(t, uint32(3000), pkt.Timestamp)
		assert.Equal(t, uint16(65534+i), pkt.SequenceNumber, "sequence wraps")
		assert.Equal(t, i == len(packets)-1, pkt.Marker)
		assert.LessOrEqual(t, len(pkt.Payload), 100)
	}
}

func TestAssemblerRebuildsFrames(t *testing.T) {
	frame := testFrame(t)
	p := NewPacketizer(1, 128, 10)
	var a Assembler

	for round := uint32(0); round < 3; round++ {
		var got []byte
		var done bool
		for _, pkt := range p.Packetize(frame, round*3000) {
			got, done = a.Push(pkt)
		}
		require.True(t, done)
		assert.True(t, bytes.Equal(frame, got))
	}

	img, err := DecodeFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
}

func TestAssemblerDropsFrameWithGap(t *testing.T) {
	frame := testFrame(t)
	p := NewPacketizer(1, 128, 0)
	var a Assembler

	first := p.Packetize(frame, 0)
	require.Greater(t, len(first), 2)
	for i, pkt := range first {
		if i == 1 {
			continue
		}
		_, done := a.Push(pkt)
		assert.False(t, done)
	}

	var done bool
	var got []byte
	for _, pkt := range p.Packetize(frame, 3000) {
		got, done = a.Push(pkt)
	}
	assert.True(t, done)
	assert.Equal(t, frame, got)
}

func TestAssemblerDropsFrameWithoutStart(t *testing.T) {
	frame := testFrame(t)
	p := NewPacketizer(1, 128, 0)
	var a Assembler

	for _, pkt := range p.Packetize(frame, 0)[1:] {
		_, done := a.Push(pkt)
		assert.False(t, done)
	}
}

func TestDecodeFrameRejectsGarbage(t *testing.T) {
	_, err := DecodeFrame([]byte("hello"))
	assert.ErrorIs(t, err, errNotJPEG)
}
