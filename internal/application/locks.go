package application

import (
	"sync"

	"github.com/stellarsig/msig/internal/domain"
)

// sessionLocks hands out one mutex per session key. Mutating commands for a
// single session serialize on it because registrar calls and submissions
// race on the owner account's sequence number; distinct sessions share no
// mutable state and proceed in parallel.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[domain.SessionID]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[domain.SessionID]*sync.Mutex)}
}

func (l *sessionLocks) lockFor(id domain.SessionID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	return lock
}
