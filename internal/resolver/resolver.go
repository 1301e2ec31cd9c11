// Package resolver answers "can this name be registered, and for how
// much" directly from the ledger. Results are never cached: a stale
// "available" would let a user draft a registration that is doomed to
// revert, so every call pays for a fresh read.
package resolver

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/gateway"
	"github.com/push-name-service/pns-indexer/internal/naming"
)

// Status classifies a name's registrability
type Status string

const (
	// StatusAvailable means the name can be registered right now
	StatusAvailable Status = "available"
	// StatusTaken means an active registration holds the name
	StatusTaken Status = "taken"
	// StatusInGrace means the registration lapsed but only the previous
	// owner may re-register until the grace period ends.
	StatusInGrace Status = "in_grace"
)

// Availability is the full answer for one name
type Availability struct {
	Name      string             `json:"name"`
	NameHash  common.Hash        `json:"name_hash"`
	Status    Status             `json:"status"`
	Fee       *big.Int           `json:"fee,omitempty"`        // set when available
	IsPremium bool               `json:"is_premium"`
	Record    *domain.NameRecord `json:"record,omitempty"` // set when taken or in grace
}

// Resolver resolves name availability against the ledger
type Resolver struct {
	gw    gateway.Gateway
	clock adapter.Clock
}

// New creates a resolver bound to a gateway
func New(gw gateway.Gateway, clock adapter.Clock) *Resolver {
	return &Resolver{gw: gw, clock: clock}
}

// Resolve reports whether name is open for registration. On any ledger
// error the error is returned as-is; the caller must not fall back to
// treating the name as available.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Availability, error) {
	name = domain.NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", domain.ErrValidation)
	}

	hash := naming.Hash(name)

	available, err := r.gw.IsNameAvailable(ctx, name)
	if err != nil {
		return nil, err
	}

	if available {
		fee, err := r.gw.RegistrationFee(ctx, hash)
		if err != nil {
			return nil, err
		}

		base, multiplier, err := r.gw.BaseFeeAndMultiplier(ctx)
		if err != nil {
			return nil, err
		}

		// A name is premium exactly when the quoted fee lands on the
		// premium schedule (base times multiplier). With a unit
		// multiplier the schedules coincide and nothing is premium.
		premiumFee := naming.Fee(true, base, multiplier)

		return &Availability{
			Name:      name,
			NameHash:  hash,
			Status:    StatusAvailable,
			Fee:       fee,
			IsPremium: premiumFee.Cmp(base) != 0 && fee.Cmp(premiumFee) == 0,
		}, nil
	}

	record, err := r.gw.GetNameRecord(ctx, name)
	if err != nil {
		return nil, err
	}

	return &Availability{
		Name:      name,
		NameHash:  hash,
		Status:    StatusTaken,
		IsPremium: record.IsPremium,
		Record:    record,
	}, nil
}

// PrimaryName resolves the reverse record for an address: the name its
// owner claimed via a set-primary mutation. Reverse records live only on
// the ledger, so this is always a fresh read; domain.ErrNameNotFound
// means the address never claimed a primary name.
func (r *Resolver) PrimaryName(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: invalid address %q", domain.ErrValidation, address)
	}
	return r.gw.ReverseLookup(ctx, common.HexToAddress(address))
}

// ResolveGrace is Resolve plus grace-window detection: a taken name whose
// expiry has passed but is still inside the contract's grace period is
// reported as in_grace rather than taken.
func (r *Resolver) ResolveGrace(ctx context.Context, name string) (*Availability, error) {
	avail, err := r.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if avail.Status != StatusTaken || avail.Record == nil {
		return avail, nil
	}

	now := r.clock.Now()
	if avail.Record.Active(now) {
		return avail, nil
	}

	grace, err := r.gw.GracePeriod(ctx)
	if err != nil {
		return nil, err
	}
	if now.Before(avail.Record.ExpiresAt.Add(grace)) {
		avail.Status = StatusInGrace
	}
	return avail, nil
}
