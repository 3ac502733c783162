package ports

import (
	"context"

	"github.com/stellarsig/msig/internal/domain"
)

// LedgerGateway is the coordination engine's only view of the ledger
// network. Implementations must bound every call with the context deadline;
// a hung call holds a session's exclusive lock.
type LedgerGateway interface {
	// FundAccount creates and funds a testnet account. Funding an account
	// that already exists is success.
	FundAccount(ctx context.Context, address string) error
	LoadAccount(ctx context.Context, address string) (domain.AccountState, error)
	BaseFee(ctx context.Context) (int64, error)
	// Submit sends a signed transaction envelope exactly once. Callers must
	// not retry on domain.ErrSubmissionTimeout without checking account
	// state first.
	Submit(ctx context.Context, envelopeXDR string) (domain.SubmissionResult, error)
}
