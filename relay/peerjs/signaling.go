package peerjs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/pion/webrtc/v4"
)

// Message types of the PeerJS signaling protocol.
const (
	msgOpen      = "OPEN"
	msgError     = "ERROR"
	msgIDTaken   = "ID-TAKEN"
	msgOffer     = "OFFER"
	msgAnswer    = "ANSWER"
	msgCandidate = "CANDIDATE"
	msgLeave     = "LEAVE"
	msgExpire    = "EXPIRE"
	msgHeartbeat = "HEARTBEAT"
)

// Connection types carried in offer payloads.
const (
	connData  = "data"
	connMedia = "media"
)

var (
	ErrIDTaken    = errors.New("peerjs: id is taken")
	ErrNotOpen    = errors.New("peerjs: signaling is not open")
	errServerSide = errors.New("peerjs: server error")
)

type message struct {
	Type    string   `json:"type"`
	Src     string   `json:"src,omitempty"`
	Dst     string   `json:"dst,omitempty"`
	Payload *payload `json:"payload,omitempty"`
}

type payload struct {
	Type         string                     `json:"type,omitempty"`
	ConnectionID string                     `json:"connectionId,omitempty"`
	SDP          *webrtc.SessionDescription `json:"sdp,omitempty"`
	Candidate    *webrtc.ICECandidateInit   `json:"candidate,omitempty"`

	// Data connection options.
	Label         string `json:"label,omitempty"`
	Reliable      bool   `json:"reliable,omitempty"`
	Serialization string `json:"serialization,omitempty"`

	Msg string `json:"msg,omitempty"`
}

// ServerOptions locates the signaling broker.
type ServerOptions struct {
	Host   string
	Port   int
	Path   string
	Key    string
	Secure bool

	Heartbeat  time.Duration
	HTTPClient *http.Client
}

func (o ServerOptions) base(scheme string) string {
	if o.Secure {
		scheme += "s"
	}
	path := o.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme + "://" + o.Host + ":" + strconv.Itoa(o.Port) + path
}

// idURL is the endpoint that hands out fresh peer ids.
func (o ServerOptions) idURL() string {
	return o.base("http") + url.PathEscape(o.Key) + "/id?ts=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func (o ServerOptions) socketURL(id, token string) string {
	q := url.Values{}
	q.Set("key", o.Key)
	q.Set("id", id)
	q.Set("token", token)
	return o.base("ws") + "peerjs?" + q.Encode()
}

// signaler is an open connection to the broker.
type signaler struct {
	opts ServerOptions
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex
}

// dialSignaler asks the broker for an id, opens the socket and waits for
// the broker to confirm the registration.
func dialSignaler(ctx context.Context, opts ServerOptions, token string) (*signaler, error) {
	id, err := fetchID(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch id: %w", err)
	}

	conn, _, err := websocket.Dial(ctx, opts.socketURL(id, token), &websocket.DialOptions{
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("dial signaling: %w", err)
	}

	var first message
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		_ = conn.CloseNow()
		return nil, fmt.Errorf("read open: %w", err)
	}
	switch first.Type {
	case msgOpen:
	case msgIDTaken:
		_ = conn.CloseNow()
		return nil, ErrIDTaken
	case msgError:
		_ = conn.CloseNow()
		return nil, fmt.Errorf("%w: %s", errServerSide, first.Payload.msg())
	default:
		_ = conn.CloseNow()
		return nil, fmt.Errorf("peerjs: unexpected %s before open", first.Type)
	}

	log.Printf("[signal] registered as %s", id)
	return &signaler{opts: opts, id: id, conn: conn}, nil
}

func (p *payload) msg() string {
	if p == nil {
		return ""
	}
	return p.Msg
}

func fetchID(ctx context.Context, opts ServerOptions) (string, error) {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.idURL(), nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(body))
	if id == "" {
		return "", errors.New("empty id")
	}
	return id, nil
}

func (s *signaler) send(ctx context.Context, msg message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return wsjson.Write(ctx, s.conn, msg)
}

// run reads messages until ctx ends or the socket fails, passing each to
// handle, and keeps the registration alive with heartbeats.
func (s *signaler) run(ctx context.Context, handle func(message)) error {
	if s.opts.Heartbeat > 0 {
		go s.heartbeat(ctx)
	}
	for {
		var msg message
		if err := wsjson.Read(ctx, s.conn, &msg); err != nil {
			return err
		}
		if msg.Type == msgHeartbeat {
			continue
		}
		handle(msg)
	}
}

func (s *signaler) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.send(ctx, message{Type: msgHeartbeat}); err != nil {
				log.Printf("[signal] heartbeat: %v", err)
				return
			}
		}
	}
}

func (s *signaler) close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
