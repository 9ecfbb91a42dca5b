// Package peerjs connects the relay to a PeerJS signaling broker and
// negotiates the peer connections with pion/webrtc. Both sides use
// non-trickle ICE: offers and answers carry every gathered candidate.
package peerjs

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/automoto/joy-ctrl/config"
	"github.com/automoto/joy-ctrl/relay"
	"github.com/oklog/ulid/v2"
	"github.com/pion/webrtc/v4"
)

// Options configures a Connector.
type Options struct {
	Server     ServerOptions
	ICEServers []webrtc.ICEServer

	DataLabel   string
	JPEGQuality int
	MaxRTPBytes int
}

// OptionsFromConfig builds Options from config.Relay.
func OptionsFromConfig() Options {
	c := config.Relay
	ice := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for _, s := range c.ICEServers {
		ice = append(ice, webrtc.ICEServer{
			URLs:       s.URLs,
			Username:   s.Username,
			Credential: s.Credential,
		})
	}
	return Options{
		Server: ServerOptions{
			Host:      c.SignalHost,
			Port:      c.SignalPort,
			Path:      c.SignalPath,
			Key:       c.SignalKey,
			Secure:    c.SignalSecure,
			Heartbeat: time.Duration(c.HeartbeatSec) * time.Second,
		},
		ICEServers:  ice,
		DataLabel:   c.DataLabel,
		JPEGQuality: c.JPEGQuality,
		MaxRTPBytes: c.MaxRTPBytes,
	}
}

// peerConn is one negotiated connection, keyed by its PeerJS connection id.
type peerConn struct {
	id   string
	peer string
	kind string // connData or connMedia
	pc   *webrtc.PeerConnection

	offer *webrtc.SessionDescription // incoming media offer waiting for Answer
	stop  context.CancelFunc         // outbound media pump
}

// Connector implements relay.Connector on top of a PeerJS broker.
// All shared fields are protected by mu (pion and socket callbacks run on
// their own goroutines).
type Connector struct {
	opts Options
	api  *webrtc.API

	mu      sync.Mutex
	handler func(relay.SessionEvent)
	sig     *signaler
	conns   map[string]*peerConn
	closed  bool
	entropy *ulid.MonotonicEntropy

	events chan relay.SessionEvent
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a connector. Nothing touches the network until OpenSession.
func New(opts Options) (*Connector, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterCodec(webrtc.RTPCodecParameters{
		RTPCodecCapability: jpegCapability(),
		PayloadType:        jpegPayloadType,
	}, webrtc.RTPCodecTypeVideo); err != nil {
		return nil, fmt.Errorf("register codec: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Connector{
		opts:    opts,
		api:     webrtc.NewAPI(webrtc.WithMediaEngine(m)),
		conns:   make(map[string]*peerConn),
		entropy: ulid.Monotonic(rand.Reader, 0),
		events:  make(chan relay.SessionEvent, 64),
		ctx:     ctx,
		cancel:  cancel,
	}
	go c.dispatch()
	return c, nil
}

func jpegCapability() webrtc.RTPCodecCapability {
	return webrtc.RTPCodecCapability{MimeType: MimeTypeJPEGFrames, ClockRate: videoClockRate}
}

func (c *Connector) Subscribe(handler func(relay.SessionEvent)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handler != nil {
		return relay.ErrSubscribed
	}
	c.handler = handler
	return nil
}

// dispatch delivers events one at a time, outside every lock.
func (c *Connector) dispatch() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.events:
			c.mu.Lock()
			h := c.handler
			c.mu.Unlock()
			if h != nil {
				h(ev)
			}
		}
	}
}

func (c *Connector) emit(ev relay.SessionEvent) {
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}

func (c *Connector) emitError(kind relay.ErrorKind, op, peer string, err error) {
	log.Printf("[peerjs] %s %s: %v", op, peer, err)
	c.emit(relay.SessionEvent{
		Kind: relay.EventError,
		Peer: peer,
		Err:  &relay.Error{Kind: kind, Op: op, Peer: peer, Err: err},
	})
}

func (c *Connector) newID(prefix string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return prefix + strings.ToLower(ulid.MustNew(ulid.Now(), c.entropy).String())
}

// OpenSession registers with the broker and starts reading signaling
// messages.
func (c *Connector) OpenSession(ctx context.Context) (string, error) {
	sig, err := dialSignaler(ctx, c.opts.Server, c.newID(""))
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = sig.close()
		return "", errors.New("peerjs: connector closed")
	}
	c.sig = sig
	c.mu.Unlock()

	go func() {
		err := sig.run(c.ctx, c.handleMessage)
		if c.ctx.Err() != nil {
			return
		}
		log.Printf("[signal] connection lost: %v", err)
		c.emit(relay.SessionEvent{Kind: relay.EventClosed})
	}()

	c.emit(relay.SessionEvent{Kind: relay.EventSessionOpen, LocalID: sig.id})
	return sig.id, nil
}

func (c *Connector) signaler() (*signaler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sig == nil || c.closed {
		return nil, ErrNotOpen
	}
	return c.sig, nil
}

func (c *Connector) newPeerConnection() (*webrtc.PeerConnection, error) {
	return c.api.NewPeerConnection(webrtc.Configuration{ICEServers: c.opts.ICEServers})
}

func (c *Connector) track(conn *peerConn) {
	c.mu.Lock()
	c.conns[conn.id] = conn
	c.mu.Unlock()

	conn.pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Printf("[peerjs] %s with %s: %s", conn.id, conn.peer, state)
		if state != webrtc.PeerConnectionStateFailed {
			return
		}
		kind := relay.DataChannelError
		if conn.kind == connMedia {
			kind = relay.MediaCallError
		}
		c.emitError(kind, "peer connection", conn.peer, errors.New("ice failed"))
	})
}

func (c *Connector) lookup(id string) *peerConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conns[id]
}

func (c *Connector) drop(id string) *peerConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn := c.conns[id]
	delete(c.conns, id)
	return conn
}

// offer creates the local offer, waits for ICE gathering and sends it.
func (c *Connector) offer(ctx context.Context, conn *peerConn, p payload) error {
	sig, err := c.signaler()
	if err != nil {
		return err
	}
	offer, err := conn.pc.CreateOffer(nil)
	if err != nil {
		return err
	}
	local, err := c.gather(ctx, conn.pc, offer)
	if err != nil {
		return err
	}
	p.SDP = local
	return sig.send(ctx, message{Type: msgOffer, Dst: conn.peer, Payload: &p})
}

func (c *Connector) answer(ctx context.Context, conn *peerConn, remote webrtc.SessionDescription) error {
	sig, err := c.signaler()
	if err != nil {
		return err
	}
	if err := conn.pc.SetRemoteDescription(remote); err != nil {
		return err
	}
	answer, err := conn.pc.CreateAnswer(nil)
	if err != nil {
		return err
	}
	local, err := c.gather(ctx, conn.pc, answer)
	if err != nil {
		return err
	}
	return sig.send(ctx, message{Type: msgAnswer, Dst: conn.peer, Payload: &payload{
		Type:         conn.kind,
		ConnectionID: conn.id,
		SDP:          local,
	}})
}

func (c *Connector) gather(ctx context.Context, pc *webrtc.PeerConnection, desc webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	done := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(desc); err != nil {
		return nil, err
	}
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return pc.LocalDescription(), nil
}

// Connect opens a data connection to remoteID. The channel is reported with
// EventChannelOpen once it is usable.
func (c *Connector) Connect(ctx context.Context, remoteID string) (relay.DataChannel, error) {
	pc, err := c.newPeerConnection()
	if err != nil {
		return nil, err
	}
	conn := &peerConn{id: c.newID("dc_"), peer: remoteID, kind: connData, pc: pc}

	ordered := true
	dc, err := pc.CreateDataChannel(conn.id, &webrtc.DataChannelInit{Ordered: &ordered})
	if err != nil {
		_ = pc.Close()
		return nil, err
	}
	channel := &dataChannel{dc: dc, peer: remoteID, label: c.opts.DataLabel}
	c.watchChannel(channel)
	c.track(conn)

	err = c.offer(ctx, conn, payload{
		Type:          connData,
		ConnectionID:  conn.id,
		Label:         c.opts.DataLabel,
		Reliable:      true,
		Serialization: "binary",
	})
	if err != nil {
		c.drop(conn.id)
		_ = pc.Close()
		return nil, err
	}
	return channel, nil
}

func (c *Connector) watchChannel(ch *dataChannel) {
	ch.dc.OnOpen(func() {
		c.emit(relay.SessionEvent{Kind: relay.EventChannelOpen, Peer: ch.peer, Channel: ch})
	})
	ch.dc.OnError(func(err error) {
		c.emitError(relay.DataChannelError, "data channel", ch.peer, err)
	})
}

// Call offers a media connection to remoteID that carries stream.
func (c *Connector) Call(ctx context.Context, remoteID string, stream relay.LocalStream) (relay.MediaCall, error) {
	pc, err := c.newPeerConnection()
	if err != nil {
		return nil, err
	}
	track, err := webrtc.NewTrackLocalStaticRTP(jpegCapability(), "video", "joy-ctrl")
	if err != nil {
		_ = pc.Close()
		return nil, err
	}
	sender, err := pc.AddTrack(track)
	if err != nil {
		_ = pc.Close()
		return nil, err
	}
	go drainRTCP(sender)

	pumpCtx, stop := context.WithCancel(c.ctx)
	conn := &peerConn{id: c.newID("mc_"), peer: remoteID, kind: connMedia, pc: pc, stop: stop}
	c.track(conn)
	if err := c.offer(ctx, conn, payload{Type: connMedia, ConnectionID: conn.id}); err != nil {
		c.drop(conn.id)
		_ = closeConn(conn)
		return nil, err
	}
	go c.pump(pumpCtx, track, stream)

	return &mediaCall{conn: conn, owner: c}, nil
}

func drainRTCP(sender *webrtc.RTPSender) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			return
		}
	}
}

// pump encodes frames from stream and writes them to track until either
// ends.
func (c *Connector) pump(ctx context.Context, track *webrtc.TrackLocalStaticRTP, stream relay.LocalStream) {
	var ssrc [4]byte
	_, _ = rand.Read(ssrc[:])
	packetizer := NewPacketizer(uint32(ssrc[0])<<24|uint32(ssrc[1])<<16|uint32(ssrc[2])<<8|uint32(ssrc[3]),
		c.opts.MaxRTPBytes, uint16(ssrc[0])<<8|uint16(ssrc[3]))
	start := time.Now()

	frames := stream.Frames()
	for {
		var frame image.Image
		select {
		case <-ctx.Done():
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			frame = f
		}

		data, err := EncodeFrame(frame, c.opts.JPEGQuality)
		if err != nil {
			log.Printf("[peerjs] encode frame: %v", err)
			continue
		}
		ts := uint32(time.Since(start).Seconds() * videoClockRate)
		for _, pkt := range packetizer.Packetize(data, ts) {
			if err := track.WriteRTP(pkt); err != nil {
				log.Printf("[peerjs] write rtp: %v", err)
				break
			}
		}
	}
}

// Answer accepts an incoming media call. No local media is sent back; the
// remote stream arrives as EventStreamReceived.
func (c *Connector) Answer(ctx context.Context, call relay.IncomingCall) (relay.MediaCall, error) {
	pending := c.drop(call.CallID)
	if pending == nil || pending.offer == nil {
		return nil, fmt.Errorf("peerjs: no pending call %q", call.CallID)
	}

	pc, err := c.newPeerConnection()
	if err != nil {
		return nil, err
	}
	if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionRecvonly,
	}); err != nil {
		_ = pc.Close()
		return nil, err
	}
	conn := &peerConn{id: pending.id, peer: pending.peer, kind: connMedia, pc: pc}
	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		remote := newRemoteStream(conn.peer)
		c.emit(relay.SessionEvent{Kind: relay.EventStreamReceived, Peer: conn.peer, Stream: remote})
		remote.read(track)
	})
	c.track(conn)

	offer := *pending.offer

	if err := c.answer(ctx, conn, offer); err != nil {
		c.drop(conn.id)
		_ = pc.Close()
		return nil, err
	}
	return &mediaCall{conn: conn, owner: c}, nil
}

func (c *Connector) handleMessage(msg message) {
	p := msg.Payload
	switch msg.Type {
	case msgOffer:
		if p == nil || p.SDP == nil {
			log.Printf("[signal] offer from %s without sdp", msg.Src)
			return
		}
		c.handleOffer(msg.Src, p)
	case msgAnswer:
		if p == nil || p.SDP == nil {
			return
		}
		conn := c.lookup(p.ConnectionID)
		if conn == nil || conn.pc == nil {
			log.Printf("[signal] answer for unknown connection %s", p.ConnectionID)
			return
		}
		if err := conn.pc.SetRemoteDescription(*p.SDP); err != nil {
			kind := relay.ConnectError
			if conn.kind == connMedia {
				kind = relay.MediaCallError
			}
			c.emitError(kind, "set answer", conn.peer, err)
			return
		}
		if conn.kind == connMedia {
			c.emit(relay.SessionEvent{Kind: relay.EventCallAccepted, Peer: conn.peer})
		}
	case msgCandidate:
		if p == nil || p.Candidate == nil {
			return
		}
		if conn := c.lookup(p.ConnectionID); conn != nil && conn.pc != nil {
			if err := conn.pc.AddICECandidate(*p.Candidate); err != nil {
				log.Printf("[signal] candidate for %s: %v", conn.id, err)
			}
		}
	case msgExpire:
		// The broker could not deliver our offer: the peer is unknown.
		c.emitError(relay.ConnectError, "connect", msg.Src, errors.New("peer unavailable"))
	case msgLeave:
		c.closePeer(msg.Src)
		c.emit(relay.SessionEvent{Kind: relay.EventClosed, Peer: msg.Src})
	case msgError:
		c.emitError(relay.SessionOpenError, "signaling", "", fmt.Errorf("%w: %s", errServerSide, p.msg()))
	default:
		log.Printf("[signal] ignoring %s from %s", msg.Type, msg.Src)
	}
}

func (c *Connector) handleOffer(from string, p *payload) {
	switch p.Type {
	case connMedia:
		offer := *p.SDP
		c.mu.Lock()
		c.conns[p.ConnectionID] = &peerConn{id: p.ConnectionID, peer: from, kind: connMedia, offer: &offer}
		c.mu.Unlock()
		c.emit(relay.SessionEvent{
			Kind: relay.EventIncomingCall,
			Peer: from,
			Call: &relay.IncomingCall{Peer: from, CallID: p.ConnectionID},
		})
	case connData:
		go c.acceptData(from, p)
	default:
		log.Printf("[signal] unknown connection type %q from %s", p.Type, from)
	}
}

// acceptData answers a data connection offer.
func (c *Connector) acceptData(from string, p *payload) {
	pc, err := c.newPeerConnection()
	if err != nil {
		c.emitError(relay.DataChannelError, "accept data", from, err)
		return
	}
	label := p.Label
	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		c.watchChannel(&dataChannel{dc: dc, peer: from, label: label})
	})
	conn := &peerConn{id: p.ConnectionID, peer: from, kind: connData, pc: pc}
	c.track(conn)

	ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
	defer cancel()
	if err := c.answer(ctx, conn, *p.SDP); err != nil {
		c.drop(conn.id)
		_ = pc.Close()
		c.emitError(relay.DataChannelError, "accept data", from, err)
	}
}

func (c *Connector) closePeer(peer string) {
	c.mu.Lock()
	var victims []*peerConn
	for id, conn := range c.conns {
		if conn.peer == peer {
			victims = append(victims, conn)
			delete(c.conns, id)
		}
	}
	c.mu.Unlock()

	for _, conn := range victims {
		closeConn(conn)
	}
}

func closeConn(conn *peerConn) error {
	if conn.stop != nil {
		conn.stop()
	}
	if conn.pc == nil {
		return nil
	}
	return conn.pc.Close()
}

// Close closes every peer connection and then the broker socket.
func (c *Connector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conns := c.conns
	c.conns = make(map[string]*peerConn)
	sig := c.sig
	c.sig = nil
	c.mu.Unlock()

	var errs []error
	for _, conn := range conns {
		errs = append(errs, closeConn(conn))
	}
	if sig != nil {
		errs = append(errs, sig.close())
	}
	c.cancel()
	return errors.Join(errs...)
}

type dataChannel struct {
	dc    *webrtc.DataChannel
	peer  string
	label string
}

func (d *dataChannel) Peer() string  { return d.peer }
func (d *dataChannel) Label() string { return d.label }

func (d *dataChannel) Send(data []byte) error {
	return d.dc.Send(data)
}

func (d *dataChannel) Close() error {
	return d.dc.Close()
}

type mediaCall struct {
	conn  *peerConn
	owner *Connector
}

func (m *mediaCall) Peer() string { return m.conn.peer }

// Close stops the media pump and closes the call's peer connection.
func (m *mediaCall) Close() error {
	m.owner.drop(m.conn.id)
	return closeConn(m.conn)
}
