package event

import "sync"

// Signal is a manual-reset event shared by one producer and any number of
// consumers. Raising it wakes every goroutine currently waiting on Done();
// the level stays set until some consumer clears it. Both Raise and Clear
// are idempotent, so consumers may race to clear after a shared wake-up.
type Signal struct {
	mu  sync.Mutex
	set bool
	ch  chan struct{}
}

// New returns a Signal in the cleared state.
func New() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Raise sets the signal. No-op if already set.
func (s *Signal) Raise() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		s.set = true
		close(s.ch)
	}
}

// Clear resets the signal. No-op if not set.
func (s *Signal) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set {
		s.set = false
		s.ch = make(chan struct{})
	}
}

// IsSet reports the current level.
func (s *Signal) IsSet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Done returns a channel that is closed while the signal is set. Waiters must
// call Done again after a Clear; the channel is replaced, not reused.
func (s *Signal) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch
}
