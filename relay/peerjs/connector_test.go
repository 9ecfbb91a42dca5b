package peerjs

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/automoto/joy-ctrl/relay"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// broker is a minimal PeerJS server for tests.
type broker struct {
	srv      *httptest.Server
	first    message
	received chan message

	mu   sync.Mutex
	conn *websocket.Conn
}

func newBroker(t *testing.T, first message) *broker {
	t.Helper()
	b := &broker{first: first, received: make(chan message, 16)}

	mux := http.NewServeMux()
	mux.HandleFunc("/peerjs/id", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("peer-1\n"))
	})
	mux.HandleFunc("/peerjs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "peer-1" || r.URL.Query().Get("token") == "" {
			http.Error(w, "bad registration", http.StatusBadRequest)
			return
		}
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		b.mu.Lock()
		b.conn = conn
		b.mu.Unlock()

		ctx := r.Context()
		if err := wsjson.Write(ctx, conn, b.first); err != nil {
			return
		}
		for {
			var msg message
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				return
			}
			select {
			case b.received <- msg:
			default:
			}
		}
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *broker) options(t *testing.T) ServerOptions {
	t.Helper()
	u, err := url.Parse(b.srv.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return ServerOptions{Host: host, Port: port, Path: "/", Key: "peerjs"}
}

func (b *broker) send(t *testing.T, msg message) {
	t.Helper()
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	require.NotNil(t, conn)
	require.NoError(t, wsjson.Write(context.Background(), conn, msg))
}

func subscribe(t *testing.T, c *Connector) <-chan relay.SessionEvent {
	t.Helper()
	events := make(chan relay.SessionEvent, 16)
	require.NoError(t, c.Subscribe(func(ev relay.SessionEvent) { events <- ev }))
	return events
}

func next(t *testing.T, events <-chan relay.SessionEvent) relay.SessionEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}
	return relay.SessionEvent{}
}

func TestServerURLs(t *testing.T) {
	opts := ServerOptions{Host: "example.com", Port: 443, Path: "/myapp", Key: "peerjs", Secure: true}

	assert.Contains(t, opts.idURL(), "https://example.com:443/myapp/peerjs/id?ts=")
	assert.Equal(t, "wss://example.com:443/myapp/peerjs?id=abc&key=peerjs&token=tok", opts.socketURL("abc", "tok"))
}

func TestOpenSessionRegistersWithBroker(t *testing.T) {
	b := newBroker(t, message{Type: msgOpen})
	opts := b.options(t)
	opts.Heartbeat = 20 * time.Millisecond

	c, err := New(Options{Server: opts, MaxRTPBytes: 1100, JPEGQuality: 70})
	require.NoError(t, err)
	defer c.Close()
	events := subscribe(t, c)

	id, err := c.OpenSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "peer-1", id)

	ev := next(t, events)
	assert.Equal(t, relay.EventSessionOpen, ev.Kind)
	assert.Equal(t, "peer-1", ev.LocalID)

	select {
	case msg := <-b.received:
		assert.Equal(t, msgHeartbeat, msg.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("no heartbeat")
	}
}

func TestOpenSessionIDTaken(t *testing.T) {
	b := newBroker(t, message{Type: msgIDTaken})
	c, err := New(Options{Server: b.options(t)})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.OpenSession(context.Background())
	assert.ErrorIs(t, err, ErrIDTaken)
}

func TestBrokerNotificationsBecomeEvents(t *testing.T) {
	b := newBroker(t, message{Type: msgOpen})
	c, err := New(Options{Server: b.options(t)})
	require.NoError(t, err)
	defer c.Close()
	events := subscribe(t, c)

	_, err = c.OpenSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, relay.EventSessionOpen, next(t, events).Kind)

	b.send(t, message{Type: msgExpire, Src: "xyz789"})
	ev := next(t, events)
	assert.Equal(t, relay.EventError, ev.Kind)
	assert.ErrorIs(t, ev.Err, relay.ErrConnect)
	assert.Equal(t, "xyz789", ev.Peer)

	offer := message{Type: msgOffer, Src: "caller", Payload: &payload{
		Type:         connMedia,
		ConnectionID: "mc_1",
		SDP:          &webrtcOffer,
	}}
	b.send(t, offer)
	ev = next(t, events)
	assert.Equal(t, relay.EventIncomingCall, ev.Kind)
	require.NotNil(t, ev.Call)
	assert.Equal(t, relay.IncomingCall{Peer: "caller", CallID: "mc_1"}, *ev.Call)

	b.send(t, message{Type: msgLeave, Src: "caller"})
	ev = next(t, events)
	assert.Equal(t, relay.EventClosed, ev.Kind)
	assert.Equal(t, "caller", ev.Peer)

	call, err := c.Answer(context.Background(), relay.IncomingCall{Peer: "caller", CallID: "mc_1"})
	assert.Error(t, err, "the call went away with its peer")
	assert.Nil(t, call)
}

func TestSubscribeOnce(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Subscribe(func(relay.SessionEvent) {}))
	assert.ErrorIs(t, c.Subscribe(func(relay.SessionEvent) {}), relay.ErrSubscribed)
}

func TestConnectBeforeOpenFails(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Connect(context.Background(), "xyz789")
	assert.ErrorIs(t, err, ErrNotOpen)
}
