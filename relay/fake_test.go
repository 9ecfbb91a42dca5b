package relay

import (
	"context"
	"image"
	"sync"
)

// fakeConnector records calls and lets tests inject events synchronously.
type fakeConnector struct {
	mu      sync.Mutex
	handler func(SessionEvent)
	log     []string

	localID    string
	openErr    error
	connectErr error
	callErr    error
	answerErr  error

	// autoOpen emits the channel-open event from inside Connect.
	autoOpen bool
	// onCall runs inside Call just before it returns.
	onCall func()
	streams  []LocalStream
	answered []IncomingCall
}

func (f *fakeConnector) record(s string) {
	f.mu.Lock()
	f.log = append(f.log, s)
	f.mu.Unlock()
}

func (f *fakeConnector) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.log...)
}

func (f *fakeConnector) emit(ev SessionEvent) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

func (f *fakeConnector) Subscribe(handler func(SessionEvent)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handler != nil {
		return ErrSubscribed
	}
	f.handler = handler
	return nil
}

func (f *fakeConnector) OpenSession(ctx context.Context) (string, error) {
	f.record("open")
	if f.openErr != nil {
		return "", f.openErr
	}
	return f.localID, nil
}

func (f *fakeConnector) Connect(ctx context.Context, remoteID string) (DataChannel, error) {
	f.record("connect " + remoteID)
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	ch := &fakeChannel{peer: remoteID, owner: f}
	if f.autoOpen {
		f.emit(SessionEvent{Kind: EventChannelOpen, Peer: remoteID, Channel: ch})
	}
	return ch, nil
}

func (f *fakeConnector) Call(ctx context.Context, remoteID string, stream LocalStream) (MediaCall, error) {
	f.record("call " + remoteID)
	if f.callErr != nil {
		return nil, f.callErr
	}
	f.mu.Lock()
	f.streams = append(f.streams, stream)
	onCall := f.onCall
	f.mu.Unlock()
	if onCall != nil {
		onCall()
	}
	return &fakeCall{peer: remoteID, owner: f}, nil
}

func (f *fakeConnector) Answer(ctx context.Context, call IncomingCall) (MediaCall, error) {
	f.record("answer " + call.Peer)
	if f.answerErr != nil {
		return nil, f.answerErr
	}
	f.mu.Lock()
	f.answered = append(f.answered, call)
	f.mu.Unlock()
	return &fakeCall{peer: call.Peer, owner: f}, nil
}

func (f *fakeConnector) Close() error {
	f.record("close session")
	return nil
}

type fakeChannel struct {
	peer  string
	owner *fakeConnector
}

func (c *fakeChannel) Peer() string           { return c.peer }
func (c *fakeChannel) Label() string          { return "test" }
func (c *fakeChannel) Send(data []byte) error { return nil }
func (c *fakeChannel) Close() error {
	c.owner.record("close channel")
	return nil
}

type fakeCall struct {
	peer  string
	owner *fakeConnector
}

func (c *fakeCall) Peer() string { return c.peer }
func (c *fakeCall) Close() error {
	c.owner.record("close call")
	return nil
}

// fakeRemote is a remote stream fed by the test.
type fakeRemote struct {
	frames chan image.Image
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{frames: make(chan image.Image)}
}

func (r *fakeRemote) Peer() string               { return "caller" }
func (r *fakeRemote) Frames() <-chan image.Image { return r.frames }

// staticSource always returns the same frame.
type staticSource struct {
	frame image.Image
}

func (s staticSource) Snapshot() image.Image { return s.frame }

// presenterLog collects presented frames.
type presenterLog struct {
	mu     sync.Mutex
	frames []image.Image
}

func (p *presenterLog) Present(frame image.Image) {
	p.mu.Lock()
	p.frames = append(p.frames, frame)
	p.mu.Unlock()
}

func (p *presenterLog) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}
