package horizon

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/support/render/problem"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarsig/msig/internal/domain"
)

type stubAPI struct {
	accountDetail func(horizonclient.AccountRequest) (hProtocol.Account, error)
	feeStats      func() (hProtocol.FeeStats, error)
	submit        func(string) (hProtocol.Transaction, error)
	fund          func(string) (hProtocol.Transaction, error)
}

func (s *stubAPI) AccountDetail(req horizonclient.AccountRequest) (hProtocol.Account, error) {
	return s.accountDetail(req)
}

func (s *stubAPI) FeeStats() (hProtocol.FeeStats, error) {
	return s.feeStats()
}

func (s *stubAPI) SubmitTransactionXDR(envelope string) (hProtocol.Transaction, error) {
	return s.submit(envelope)
}

func (s *stubAPI) Fund(addr string) (hProtocol.Transaction, error) {
	return s.fund(addr)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "deadline exceeded" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func horizonError(status int, detail string, extras map[string]interface{}) error {
	return &horizonclient.Error{
		Problem: problem.P{
			Status: status,
			Title:  http.StatusText(status),
			Detail: detail,
			Extras: extras,
		},
	}
}

func rejectionExtras(txCode string, opCodes ...string) map[string]interface{} {
	ops := make([]interface{}, len(opCodes))
	for i, code := range opCodes {
		ops[i] = code
	}
	return map[string]interface{}{
		"result_codes": map[string]interface{}{
			"transaction": txCode,
			"operations":  ops,
		},
	}
}

func TestLoadAccount(t *testing.T) {
	t.Run("returns address and sequence", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			accountDetail: func(req horizonclient.AccountRequest) (hProtocol.Account, error) {
				return hProtocol.Account{AccountID: req.AccountID, Sequence: 4711}, nil
			},
		}, nil)

		state, err := gw.LoadAccount(context.Background(), "GABC")

		require.NoError(t, err)
		assert.Equal(t, "GABC", state.Address)
		assert.Equal(t, int64(4711), state.Sequence)
	})

	t.Run("maps 404 to account not found", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			accountDetail: func(horizonclient.AccountRequest) (hProtocol.Account, error) {
				return hProtocol.Account{}, horizonError(http.StatusNotFound, "not found", nil)
			},
		}, nil)

		_, err := gw.LoadAccount(context.Background(), "GABC")

		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("maps transport failure to network unavailable", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			accountDetail: func(horizonclient.AccountRequest) (hProtocol.Account, error) {
				return hProtocol.Account{}, &url.Error{Op: "Get", URL: "https://horizon", Err: timeoutError{}}
			},
		}, nil)

		_, err := gw.LoadAccount(context.Background(), "GABC")

		assert.ErrorIs(t, err, domain.ErrNetworkUnavailable)
	})
}

func TestBaseFee(t *testing.T) {
	t.Run("uses last ledger base fee", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			feeStats: func() (hProtocol.FeeStats, error) {
				return hProtocol.FeeStats{LastLedgerBaseFee: 250}, nil
			},
		}, nil)

		fee, err := gw.BaseFee(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(250), fee)
	})

	t.Run("never goes below the protocol minimum", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			feeStats: func() (hProtocol.FeeStats, error) {
				return hProtocol.FeeStats{LastLedgerBaseFee: 0}, nil
			},
		}, nil)

		fee, err := gw.BaseFee(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(txnbuild.MinBaseFee), fee)
	})
}

func TestSubmit(t *testing.T) {
	t.Run("successful submission carries the hash", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			submit: func(string) (hProtocol.Transaction, error) {
				return hProtocol.Transaction{Successful: true, Hash: "deadbeef"}, nil
			},
		}, nil)

		result, err := gw.Submit(context.Background(), "AAAA")

		require.NoError(t, err)
		assert.True(t, result.Successful)
		assert.Equal(t, "deadbeef", result.Hash)
	})

	t.Run("ledger rejection returns result codes without an error", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			submit: func(string) (hProtocol.Transaction, error) {
				return hProtocol.Transaction{}, horizonError(http.StatusBadRequest, "rejected",
					rejectionExtras("tx_failed", "op_underfunded"))
			},
		}, nil)

		result, err := gw.Submit(context.Background(), "AAAA")

		require.NoError(t, err)
		assert.False(t, result.Successful)
		assert.Equal(t, "tx_failed, op_underfunded", result.ResultCodes)
	})

	t.Run("timeout maps to submission timeout", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			submit: func(string) (hProtocol.Transaction, error) {
				return hProtocol.Transaction{}, &url.Error{Op: "Post", URL: "https://horizon", Err: timeoutError{}}
			},
		}, nil)

		_, err := gw.Submit(context.Background(), "AAAA")

		assert.ErrorIs(t, err, domain.ErrSubmissionTimeout)
	})

	t.Run("transport failure maps to network unavailable", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			submit: func(string) (hProtocol.Transaction, error) {
				return hProtocol.Transaction{}, &url.Error{Op: "Post", URL: "https://horizon", Err: assert.AnError}
			},
		}, nil)

		_, err := gw.Submit(context.Background(), "AAAA")

		assert.ErrorIs(t, err, domain.ErrNetworkUnavailable)
	})
}

func TestFundAccount(t *testing.T) {
	t.Run("funds an account", func(t *testing.T) {
		var funded string
		gw := newGatewayWithAPI(&stubAPI{
			fund: func(addr string) (hProtocol.Transaction, error) {
				funded = addr
				return hProtocol.Transaction{Successful: true}, nil
			},
		}, nil)

		err := gw.FundAccount(context.Background(), "GABC")

		require.NoError(t, err)
		assert.Equal(t, "GABC", funded)
	})

	t.Run("already funded account is treated as success", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			fund: func(string) (hProtocol.Transaction, error) {
				return hProtocol.Transaction{}, horizonError(http.StatusBadRequest, "rejected",
					rejectionExtras("tx_failed", "op_already_exists"))
			},
		}, nil)

		err := gw.FundAccount(context.Background(), "GABC")

		assert.NoError(t, err)
	})

	t.Run("other rejections surface as ledger errors", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			fund: func(string) (hProtocol.Transaction, error) {
				return hProtocol.Transaction{}, horizonError(http.StatusBadRequest, "rejected",
					rejectionExtras("tx_failed", "op_malformed"))
			},
		}, nil)

		err := gw.FundAccount(context.Background(), "GABC")

		var ledgerErr *domain.LedgerError
		require.ErrorAs(t, err, &ledgerErr)
		assert.Contains(t, ledgerErr.ResultCodes, "op_malformed")
	})

	t.Run("transport failure maps to network unavailable", func(t *testing.T) {
		gw := newGatewayWithAPI(&stubAPI{
			fund: func(string) (hProtocol.Transaction, error) {
				return hProtocol.Transaction{}, &url.Error{Op: "Get", URL: "https://friendbot", Err: assert.AnError}
			},
		}, nil)

		err := gw.FundAccount(context.Background(), "GABC")

		assert.ErrorIs(t, err, domain.ErrNetworkUnavailable)
	})
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gw := newGatewayWithAPI(&stubAPI{}, nil)

	_, err := gw.LoadAccount(ctx, "GABC")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = gw.BaseFee(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
