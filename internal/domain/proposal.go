package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stellar/go/amount"
	"github.com/stellar/go/strkey"
)

// Proposal is a pending payment awaiting quorum. It is immutable once
// created; replacing it resets the approval set.
type Proposal struct {
	ID          uuid.UUID
	Destination string
	Amount      string
	CreatedBy   MemberID
	CreatedAt   time.Time
}

func NewProposal(destination, amountStr string, createdBy MemberID, now time.Time) (*Proposal, error) {
	destination = strings.TrimSpace(destination)
	if err := ValidateDestination(destination); err != nil {
		return nil, err
	}

	amountStr = strings.TrimSpace(amountStr)
	if err := ValidateAmount(amountStr); err != nil {
		return nil, err
	}

	return &Proposal{
		ID:          uuid.New(),
		Destination: destination,
		Amount:      amountStr,
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}, nil
}

// ValidateAmount accepts a positive decimal representable in stroops, the
// ledger's minimum unit (at most 7 decimal places, within int64 range).
func ValidateAmount(s string) error {
	stroops, err := amount.ParseInt64(s)
	if err != nil {
		return ErrInvalidAmount
	}
	if stroops <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDestination accepts an ed25519 account address in strkey form.
func ValidateDestination(s string) error {
	if !strkey.IsValidEd25519PublicKey(s) {
		return ErrInvalidDestination
	}
	return nil
}
