// Package horizon adapts a Stellar Horizon server to the ledger gateway
// port, including friendbot funding on the test network.
package horizon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"

	"github.com/stellarsig/msig/internal/domain"
	"github.com/stellarsig/msig/internal/ports"
)

// DefaultTimeout bounds every Horizon round trip. A hung call would hold a
// session's exclusive lock, so the HTTP client always carries a deadline.
const DefaultTimeout = 30 * time.Second

// api is the slice of the Horizon client the gateway uses. The client does
// not thread contexts through individual calls; the HTTP client timeout is
// the enforcement point.
type api interface {
	AccountDetail(request horizonclient.AccountRequest) (hProtocol.Account, error)
	FeeStats() (hProtocol.FeeStats, error)
	SubmitTransactionXDR(transactionXdr string) (hProtocol.Transaction, error)
	Fund(addr string) (hProtocol.Transaction, error)
}

type Gateway struct {
	api api
	log *slog.Logger
}

var _ ports.LedgerGateway = (*Gateway)(nil)

// NewGateway connects to the Horizon instance at horizonURL. Friendbot
// funding only works against a test network Horizon.
func NewGateway(horizonURL string, timeout time.Duration, log *slog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	client := &horizonclient.Client{
		HorizonURL: horizonURL,
		HTTP:       &http.Client{Timeout: timeout},
	}
	return &Gateway{api: client, log: log}
}

func newGatewayWithAPI(a api, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{api: a, log: log}
}

func (g *Gateway) FundAccount(ctx context.Context, address string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := g.api.Fund(address)
	if err == nil {
		g.log.Info("account funded", "address", address)
		return nil
	}

	if hErr := horizonclient.GetError(err); hErr != nil {
		if fundingAlreadyExists(hErr) {
			g.log.Debug("account already funded", "address", address)
			return nil
		}
		return &domain.LedgerError{Op: "fund account", ResultCodes: resultCodeSummary(hErr), Err: err}
	}

	return fmt.Errorf("fund account: %w", domain.ErrNetworkUnavailable)
}

func (g *Gateway) LoadAccount(ctx context.Context, address string) (domain.AccountState, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountState{}, err
	}

	account, err := g.api.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		if hErr := horizonclient.GetError(err); hErr != nil {
			if hErr.Problem.Status == http.StatusNotFound {
				return domain.AccountState{}, domain.ErrAccountNotFound
			}
			return domain.AccountState{}, &domain.LedgerError{Op: "load account", ResultCodes: resultCodeSummary(hErr), Err: err}
		}
		return domain.AccountState{}, fmt.Errorf("load account: %w", domain.ErrNetworkUnavailable)
	}

	sequence, err := account.GetSequenceNumber()
	if err != nil {
		return domain.AccountState{}, fmt.Errorf("parse sequence number: %w", err)
	}

	return domain.AccountState{Address: account.AccountID, Sequence: sequence}, nil
}

func (g *Gateway) BaseFee(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	stats, err := g.api.FeeStats()
	if err != nil {
		return 0, fmt.Errorf("fetch fee stats: %w", domain.ErrNetworkUnavailable)
	}

	fee := stats.LastLedgerBaseFee
	if fee < txnbuild.MinBaseFee {
		fee = txnbuild.MinBaseFee
	}
	return fee, nil
}

func (g *Gateway) Submit(ctx context.Context, envelopeXDR string) (domain.SubmissionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SubmissionResult{}, err
	}

	tx, err := g.api.SubmitTransactionXDR(envelopeXDR)
	if err == nil {
		return domain.SubmissionResult{Successful: tx.Successful, Hash: tx.Hash}, nil
	}

	if isTimeout(err) {
		return domain.SubmissionResult{}, fmt.Errorf("submit transaction: %w", domain.ErrSubmissionTimeout)
	}

	if hErr := horizonclient.GetError(err); hErr != nil {
		codes := resultCodeSummary(hErr)
		g.log.Warn("transaction rejected", "result_codes", codes)
		return domain.SubmissionResult{Successful: false, ResultCodes: codes}, nil
	}

	return domain.SubmissionResult{}, fmt.Errorf("submit transaction: %w", domain.ErrNetworkUnavailable)
}

// fundingAlreadyExists recognizes friendbot's rejection of an account that
// was funded before; the gateway treats that as success.
func fundingAlreadyExists(hErr *horizonclient.Error) bool {
	summary := resultCodeSummary(hErr)
	if strings.Contains(summary, "op_already_exists") {
		return true
	}
	return strings.Contains(hErr.Problem.Detail, "createAccountAlreadyExist")
}

func resultCodeSummary(hErr *horizonclient.Error) string {
	codes, err := hErr.ResultCodes()
	if err != nil {
		return hErr.Problem.Title
	}

	parts := []string{codes.TransactionCode}
	parts = append(parts, codes.OperationCodes...)
	return strings.Join(parts, ", ")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
