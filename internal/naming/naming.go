// Package naming holds the pure name-identity and pricing functions.
// Everything here is deterministic and I/O free; the gateway exposes the
// contract's own getNameHash/calculateRegistrationFee for cross-checking.
package naming

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/push-name-service/pns-indexer/internal/domain"
)

// Hash computes the canonical fingerprint of a name: keccak256 over the
// UTF-8 bytes of the normalized form. This matches the contract's
// getNameHash construction, so both sides agree on identity.
func Hash(name string) common.Hash {
	return crypto.Keccak256Hash([]byte(domain.NormalizeName(name)))
}

// Fee computes the registration/renewal price. Premium names pay the base
// fee scaled by the multiplier; everything else pays the base fee.
// Callers must pass the current on-chain premium flag and multiplier, not
// a cached copy: a multiplier change is a governance action that applies
// immediately to new registrations.
func Fee(isPremium bool, baseFee, premiumMultiplier *big.Int) *big.Int {
	if baseFee == nil {
		return new(big.Int)
	}
	if !isPremium || premiumMultiplier == nil {
		return new(big.Int).Set(baseFee)
	}
	return new(big.Int).Mul(baseFee, premiumMultiplier)
}
