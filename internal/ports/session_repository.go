package ports

import (
	"context"

	"github.com/stellarsig/msig/internal/domain"
)

// SessionRepository stores coordination sessions keyed by chat identifier.
// Implementations return deep copies so readers never observe a torn view of
// membership or approvals.
type SessionRepository interface {
	GetByID(ctx context.Context, id domain.SessionID) (*domain.Session, error)
	List(ctx context.Context) ([]*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id domain.SessionID) error
}
