// Package custodian generates and imports ed25519 signing keypairs. It does
// no I/O and holds no state; seed storage is the caller's concern.
package custodian

import (
	"strings"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"

	"github.com/stellarsig/msig/internal/domain"
)

// Keypair carries the two halves of a signing identity. Seed is sensitive:
// never log it, and disclose it only to its own member over a private reply.
type Keypair struct {
	Address string
	Seed    string
}

// Generate produces a fresh keypair from the platform's CSPRNG.
func Generate() (Keypair, error) {
	full, err := keypair.Random()
	if err != nil {
		return Keypair{}, err
	}

	return Keypair{Address: full.Address(), Seed: full.Seed()}, nil
}

// Import derives the public half from existing seed material. Anything that
// does not decode to a full keypair is rejected with domain.ErrInvalidKey.
func Import(seed string) (Keypair, error) {
	seed = strings.TrimSpace(seed)

	full, err := keypair.ParseFull(seed)
	if err != nil {
		return Keypair{}, domain.ErrInvalidKey
	}

	return Keypair{Address: full.Address(), Seed: full.Seed()}, nil
}

func IsValidAddress(address string) bool {
	return strkey.IsValidEd25519PublicKey(address)
}
