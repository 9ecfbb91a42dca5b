package peerjs

import (
	"image"
	"log"

	"github.com/pion/webrtc/v4"
)

// remoteStream turns the RTP packets of a received track into images.
type remoteStream struct {
	peer   string
	frames chan image.Image
}

func newRemoteStream(peer string) *remoteStream {
	return &remoteStream{peer: peer, frames: make(chan image.Image, 1)}
}

func (r *remoteStream) Peer() string               { return r.peer }
func (r *remoteStream) Frames() <-chan image.Image { return r.frames }

// read consumes track until it ends, then closes the frame channel.
func (r *remoteStream) read(track *webrtc.TrackRemote) {
	defer close(r.frames)
	var assembler Assembler
	for {
		pkt, _, err := track.ReadRTP()
		if err != nil {
			log.Printf("[peerjs] track from %s ended: %v", r.peer, err)
			return
		}
		data, ok := assembler.Push(pkt)
		if !ok {
			continue
		}
		img, err := DecodeFrame(data)
		if err != nil {
			log.Printf("[peerjs] decode frame: %v", err)
			continue
		}
		r.push(img)
	}
}

// push delivers img, replacing an unread frame.
func (r *remoteStream) push(img image.Image) {
	select { // drain stale, push latest
	case <-r.frames:
	default:
	}
	r.frames <- img
}
