package peerjs

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	"github.com/pion/rtp"
)

// MimeTypeJPEGFrames is the codec carried by media calls: whole JPEG images
// split across RTP packets. All packets of one frame share a timestamp and
// the last one has the marker bit set.
const MimeTypeJPEGFrames = "video/x-jpeg-frames"

const (
	jpegPayloadType = 96
	videoClockRate  = 90000
	maxFrameBytes   = 4 << 20
)

var errNotJPEG = errors.New("peerjs: frame does not start with a JPEG marker")

// EncodeFrame compresses img as a JPEG of the given quality.
func EncodeFrame(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeFrame decodes a frame produced by EncodeFrame.
func DecodeFrame(data []byte) (image.Image, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, errNotJPEG
	}
	return jpeg.Decode(bytes.NewReader(data))
}

// Packetizer splits encoded frames into RTP packets.
type Packetizer struct {
	ssrc     uint32
	maxBytes int
	seq      uint16
}

func NewPacketizer(ssrc uint32, maxPayload int, firstSeq uint16) *Packetizer {
	if maxPayload <= 0 {
		maxPayload = 1100
	}
	return &Packetizer{ssrc: ssrc, maxBytes: maxPayload, seq: firstSeq}
}

// Packetize returns the packets for one frame. The payloads alias frame.
func (p *Packetizer) Packetize(frame []byte, timestamp uint32) []*rtp.Packet {
	n := (len(frame) + p.maxBytes - 1) / p.maxBytes
	packets := make([]*rtp.Packet, 0, n)
	for off := 0; off < len(frame); off += p.maxBytes {
		end := min(off+p.maxBytes, len(frame))
		packets = append(packets, &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				PayloadType:    jpegPayloadType,
				SequenceNumber: p.seq,
				Timestamp:      timestamp,
				SSRC:           p.ssrc,
				Marker:         end == len(frame),
			},
			Payload: frame[off:end],
		})
		p.seq++
	}
	return packets
}

// Assembler rebuilds frames from packets. A frame with a missing packet is
// dropped as a whole; the next frame starts clean.
type Assembler struct {
	buf     []byte
	ts      uint32
	nextSeq uint16
	active  bool
	broken  bool
}

// Push adds a packet and returns a completed frame when pkt ends one.
func (a *Assembler) Push(pkt *rtp.Packet) ([]byte, bool) {
	switch {
	case !a.active || pkt.Timestamp != a.ts:
		a.buf = a.buf[:0]
		a.ts = pkt.Timestamp
		a.active = true
		a.broken = len(pkt.Payload) < 2 || pkt.Payload[0] != 0xFF || pkt.Payload[1] != 0xD8
	case pkt.SequenceNumber != a.nextSeq:
		a.broken = true
	}
	a.nextSeq = pkt.SequenceNumber + 1

	if !a.broken {
		a.buf = append(a.buf, pkt.Payload...)
		if len(a.buf) > maxFrameBytes {
			a.broken = true
		}
	}
	if !pkt.Marker {
		return nil, false
	}

	a.active = false
	if a.broken {
		return nil, false
	}
	frame := make([]byte, len(a.buf))
	copy(frame, a.buf)
	return frame, true
}
