package relay

import (
	"image"
	"sync"
)

// Presenter draws received frames.
type Presenter interface {
	Present(frame image.Image)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(image.Image)

func (f PresenterFunc) Present(frame image.Image) {
	f(frame)
}

// Playback copies frames from a remote stream onto a presenter while the
// stream is active and playback is not paused. Frames that arrive while
// paused are dropped.
type Playback struct {
	mu     sync.Mutex
	paused bool
	frames int

	stream    RemoteStream
	presenter Presenter
	stop      chan struct{}
	once      sync.Once
	done      chan struct{}
}

// NewPlayback starts playing stream onto presenter.
func NewPlayback(stream RemoteStream, presenter Presenter) *Playback {
	p := &Playback{
		stream:    stream,
		presenter: presenter,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Playback) run() {
	defer close(p.done)
	frames := p.stream.Frames()
	for {
		select {
		case <-p.stop:
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			p.mu.Lock()
			paused := p.paused
			if !paused {
				p.frames++
			}
			p.mu.Unlock()
			if !paused {
				p.presenter.Present(frame)
			}
		}
	}
}

func (p *Playback) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

func (p *Playback) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
}

func (p *Playback) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Presented returns the number of frames handed to the presenter.
func (p *Playback) Presented() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Done is closed once the stream has ended or playback was stopped.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Stop ends playback and waits for the copy loop to exit.
func (p *Playback) Stop() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}
