package application

import (
	"context"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"

	"github.com/stellarsig/msig/internal/domain"
	"github.com/stellarsig/msig/internal/ports"
)

// registrationValiditySeconds bounds how long a signed set-options
// transaction stays submittable before its timebounds expire.
const registrationValiditySeconds = 60

// Registrar raises a keypair to an on-ledger co-signer of the owner account.
// Each registration bumps the account's medium and high thresholds to the
// total signer count, so every payment keeps requiring unanimous approval
// among the signers known so far.
//
// Register is not idempotent against the ledger: resubmitting with a stale
// sequence number is rejected as tx_bad_seq. The coordinator serializes
// calls per session; Registrar never retries on its own.
type Registrar struct {
	ledger     ports.LedgerGateway
	passphrase string
}

func NewRegistrar(ledger ports.LedgerGateway, passphrase string) *Registrar {
	return &Registrar{ledger: ledger, passphrase: passphrase}
}

func (r *Registrar) Register(ctx context.Context, ownerSeed, signerAddress string, totalSigners int) error {
	owner, err := keypair.ParseFull(ownerSeed)
	if err != nil {
		return domain.ErrInvalidKey
	}

	state, err := r.ledger.LoadAccount(ctx, owner.Address())
	if err != nil {
		return fmt.Errorf("load owner account: %w", err)
	}

	fee, err := r.ledger.BaseFee(ctx)
	if err != nil {
		return fmt.Errorf("fetch base fee: %w", err)
	}

	unanimous := txnbuild.NewThreshold(txnbuild.Threshold(totalSigners))
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: state.Address, Sequence: state.Sequence},
		IncrementSequenceNum: true,
		BaseFee:              fee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(registrationValiditySeconds),
		},
		Operations: []txnbuild.Operation{
			&txnbuild.SetOptions{
				Signer:          &txnbuild.Signer{Address: signerAddress, Weight: 1},
				MasterWeight:    txnbuild.NewThreshold(1),
				LowThreshold:    txnbuild.NewThreshold(1),
				MediumThreshold: unanimous,
				HighThreshold:   unanimous,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("build set-options transaction: %w", err)
	}

	tx, err = tx.Sign(r.passphrase, owner)
	if err != nil {
		return fmt.Errorf("sign set-options transaction: %w", err)
	}

	envelope, err := tx.Base64()
	if err != nil {
		return fmt.Errorf("encode set-options transaction: %w", err)
	}

	result, err := r.ledger.Submit(ctx, envelope)
	if err != nil {
		return fmt.Errorf("submit signer registration: %w", err)
	}
	if !result.Successful {
		return &domain.LedgerError{Op: "signer registration", ResultCodes: result.ResultCodes}
	}

	return nil
}
