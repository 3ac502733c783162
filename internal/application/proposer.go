package application

import (
	"context"
	"fmt"

	"github.com/stellar/go/txnbuild"

	"github.com/stellarsig/msig/internal/domain"
	"github.com/stellarsig/msig/internal/ports"
)

const (
	// paymentMemo labels every coordinated payment on the ledger.
	paymentMemo = "Multisig transaction"

	// paymentValiditySeconds is the submission window. Once it elapses the
	// transaction is invalid and must be rebuilt against a fresh sequence
	// number; this is what guards retries against stale sequence state.
	paymentValiditySeconds = 60
)

// Proposer builds unsigned native-asset payments from an approved proposal.
type Proposer struct {
	ledger ports.LedgerGateway
}

func NewProposer(ledger ports.LedgerGateway) *Proposer {
	return &Proposer{ledger: ledger}
}

func (p *Proposer) BuildPayment(ctx context.Context, source, destination, amountStr string) (*txnbuild.Transaction, error) {
	if err := domain.ValidateDestination(destination); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(amountStr); err != nil {
		return nil, err
	}

	state, err := p.ledger.LoadAccount(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load source account: %w", err)
	}

	fee, err := p.ledger.BaseFee(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch base fee: %w", err)
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: state.Address, Sequence: state.Sequence},
		IncrementSequenceNum: true,
		BaseFee:              fee,
		Memo:                 txnbuild.MemoText(paymentMemo),
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(paymentValiditySeconds),
		},
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: destination,
				Amount:      amountStr,
				Asset:       txnbuild.NativeAsset{},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build payment transaction: %w", err)
	}

	return tx, nil
}
