package relay

import (
	"image"
	"sync"
	"time"
)

// FrameSource provides the most recent rendered frame.
type FrameSource interface {
	// Snapshot returns the latest frame, or nil if nothing was rendered yet.
	Snapshot() image.Image
}

// FrameSlot holds the latest captured canvas. The renderer stores into it,
// streams read from it; a newer frame replaces an unread one.
type FrameSlot struct {
	mu       sync.RWMutex
	frame    image.Image
	interval time.Duration
	last     time.Time
}

// NewFrameSlot returns a slot that asks for a capture at most fps times
// per second.
func NewFrameSlot(fps int) *FrameSlot {
	if fps <= 0 {
		fps = 1
	}
	return &FrameSlot{interval: time.Second / time.Duration(fps)}
}

// Due reports whether a new capture should be taken at now, and if so
// reserves that slot.
func (s *FrameSlot) Due(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.last.IsZero() && now.Sub(s.last) < s.interval {
		return false
	}
	s.last = now
	return true
}

// Store replaces the latest frame. The slot keeps img; callers must not
// modify it afterwards.
func (s *FrameSlot) Store(img image.Image) {
	s.mu.Lock()
	s.frame = img
	s.mu.Unlock()
}

func (s *FrameSlot) Snapshot() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// CanvasStream samples a FrameSource at a fixed rate and implements
// LocalStream. Slow readers see the newest frame; older ones are dropped.
type CanvasStream struct {
	source FrameSource
	frames chan image.Image
	stop   chan struct{}
	once   sync.Once
	done   chan struct{}
}

// NewCanvasStream starts sampling source at fps frames per second.
func NewCanvasStream(source FrameSource, fps int) *CanvasStream {
	if fps <= 0 {
		fps = 1
	}
	s := &CanvasStream{
		source: source,
		frames: make(chan image.Image, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run(time.Second / time.Duration(fps))
	return s
}

func (s *CanvasStream) run(interval time.Duration) {
	defer close(s.done)
	defer close(s.frames)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		frame := s.source.Snapshot()
		if frame == nil {
			continue
		}

		select { // drain stale, push latest
		case <-s.frames:
		default:
		}
		s.frames <- frame
	}
}

func (s *CanvasStream) Frames() <-chan image.Image {
	return s.frames
}

// Stop ends sampling and closes the frame channel.
func (s *CanvasStream) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}
