package peerjs

import "github.com/pion/webrtc/v4"

// webrtcOffer is only stored by the connector, never parsed, in these tests.
var webrtcOffer = webrtc.SessionDescription{
	Type: webrtc.SDPTypeOffer,
	SDP:  "v=0\r\no=- 0 0 IN IP4 127.0.0.1\r\ns=-\r\nt=0 0\r\n",
}
