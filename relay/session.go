package relay

import (
	"fmt"
	"log"
	"sync"
)

// TransitionFunc observes session state changes. It runs after the session
// lock is released.
type TransitionFunc func(from, to State, err error)

// Session is the state of one peer session. It is safe for concurrent use;
// connection events arrive on library goroutines.
type Session struct {
	mu sync.RWMutex

	localID  string
	state    State
	lastErr  error
	observer TransitionFunc
}

func NewSession() *Session {
	return &Session{state: StateIdle}
}

// OnTransition registers the single state observer.
func (s *Session) OnTransition(fn TransitionFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observer != nil {
		return ErrSubscribed
	}
	s.observer = fn
	return nil
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) LocalID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localID
}

// Err returns the failure that moved the session to StateError.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Transition moves the session to to.
func (s *Session) Transition(to State) error {
	return s.move(to, nil, nil)
}

// Open records the local identifier and moves the session to StateOpen.
func (s *Session) Open(localID string) error {
	return s.move(StateOpen, nil, func() { s.localID = localID })
}

// Fail moves the session to StateError and keeps err. It reports false if
// the session had already ended.
func (s *Session) Fail(err error) bool {
	return s.move(StateError, err, nil) == nil
}

// move applies the transition and then runs apply, both under the lock.
func (s *Session) move(to State, err error, apply func()) error {
	s.mu.Lock()
	from := s.state
	if !CanTransition(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	s.state = to
	if err != nil {
		s.lastErr = err
	}
	if apply != nil {
		apply()
	}
	observer := s.observer
	s.mu.Unlock()

	log.Printf("[relay] session %s -> %s", from, to)
	if observer != nil {
		observer(from, to, err)
	}
	return nil
}
