package keygen

import (
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"

	"algovanity/pkg/types"
)

// Generator produces one random keypair per call. Workers take the interface
// so tests can substitute a deterministic source.
type Generator interface {
	Generate() (types.Keypair, error)
}

// SDK derives keypairs with the official Algorand SDK: an ed25519 account
// plus its base32 address and 25-word mnemonic. The SDK supplies its own
// cryptographically secure randomness.
type SDK struct{}

// New returns the production keypair source.
func New() SDK {
	return SDK{}
}

// Generate creates a fresh random account. A derivation failure is not
// retried; the caller treats it as fatal.
func (SDK) Generate() (types.Keypair, error) {
	account := crypto.GenerateAccount()
	words, err := mnemonic.FromPrivateKey(account.PrivateKey)
	if err != nil {
		return types.Keypair{}, fmt.Errorf("derive mnemonic: %w", err)
	}
	return types.Keypair{
		Address:  account.Address.String(),
		Mnemonic: words,
	}, nil
}
