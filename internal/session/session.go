// Package session serializes access to one engine. The engine itself is not
// safe for concurrent use; the HTTP server and the file watcher both reach it
// through a Session.
package session

import (
	"sync"

	"github.com/specialistvlad/rawgridgo/internal/engine"
)

// Session guards an engine with a mutex.
type Session struct {
	mu     sync.Mutex
	engine *engine.Engine
}

// New wraps e.
func New(e *engine.Engine) *Session {
	return &Session{engine: e}
}

// Do runs fn with exclusive access to the engine. Observers fire while the
// lock is held, so they must not call Do themselves.
func (s *Session) Do(fn func(e *engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}
