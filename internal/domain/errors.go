package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExists        = errors.New("session already has an owner key")
	ErrSessionInactive      = errors.New("session is no longer active")
	ErrNoOwner              = errors.New("session has no owner key")
	ErrDuplicateMember      = errors.New("member already registered as co-signer")
	ErrNotAMember           = errors.New("not a registered co-signer")
	ErrNoProposal           = errors.New("no pending proposal")
	ErrImportPending        = errors.New("a key import is already pending")
	ErrNoImportPending      = errors.New("no key import pending")
	ErrConfirmationRequired = errors.New("explicit confirmation required")

	ErrInvalidKey         = errors.New("invalid secret key material")
	ErrInvalidAmount      = errors.New("amount must be a positive decimal with at most 7 decimal places")
	ErrInvalidDestination = errors.New("invalid destination address")

	ErrAccountNotFound    = errors.New("ledger account not found")
	ErrSecretNotFound     = errors.New("secret not found")
	ErrNetworkUnavailable = errors.New("ledger network unavailable")
	ErrSubmissionTimeout  = errors.New("submission timed out, outcome unknown")
)

// LedgerError reports a ledger-level rejection: the network was reachable but
// refused the operation (bad sequence, insufficient balance, missing
// signature weight, duplicate signer).
type LedgerError struct {
	Op          string
	ResultCodes string
	Err         error
}

func (e *LedgerError) Error() string {
	if e.ResultCodes != "" {
		return fmt.Sprintf("ledger rejected %s: %s", e.Op, e.ResultCodes)
	}
	return fmt.Sprintf("ledger rejected %s", e.Op)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// ErrorClass buckets failures for presentation. Validation and membership
// failures change no state and are always safe to retry. Transport failures
// mean nothing happened, with one exception: a submission timeout may have
// changed ledger state and must be surfaced as "outcome unknown".
type ErrorClass int

const (
	ClassUnknown ErrorClass = iota
	ClassValidation
	ClassMembership
	ClassLedger
	ClassTransport
)

func Classify(err error) ErrorClass {
	var ledgerErr *LedgerError
	switch {
	case err == nil:
		return ClassUnknown
	case errors.Is(err, ErrInvalidKey),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidDestination),
		errors.Is(err, ErrConfirmationRequired):
		return ClassValidation
	case errors.Is(err, ErrDuplicateMember),
		errors.Is(err, ErrNotAMember):
		return ClassMembership
	case errors.Is(err, ErrNetworkUnavailable),
		errors.Is(err, ErrSubmissionTimeout):
		return ClassTransport
	case errors.As(err, &ledgerErr),
		errors.Is(err, ErrAccountNotFound):
		return ClassLedger
	default:
		return ClassUnknown
	}
}
