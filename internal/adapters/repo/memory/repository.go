// Package memory stores sessions in process memory. Sessions have process
// lifetime by design; durability across restarts is out of scope.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/stellarsig/msig/internal/domain"
	"github.com/stellarsig/msig/internal/ports"
)

type Repository struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

var _ ports.SessionRepository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{sessions: make(map[domain.SessionID]*domain.Session)}
}

// GetByID returns a deep copy so callers never observe concurrent mutation.
func (r *Repository) GetByID(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*domain.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session.Clone())
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

func (r *Repository) Save(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *Repository) Delete(ctx context.Context, id domain.SessionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
