package httpwrap

import "sync"

// redirectSlot holds the target captured by the redirect hook of one
// CaptureRedirect call. The hook writes it exactly once and the caller reads
// it exactly once after the request resolves; the mutex guards against the
// HTTP stack ever running the hook concurrently (a logic error, not an
// expected occurrence).
type redirectSlot struct {
	mu     sync.Mutex
	target string
	filled bool
}

func (s *redirectSlot) store(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.filled {
		s.target = target
		s.filled = true
	}
}

func (s *redirectSlot) load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target, s.filled
}
