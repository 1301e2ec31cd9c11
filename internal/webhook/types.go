package webhook

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/push-name-service/pns-indexer/internal/domain"
)

// Event kind constants accepted on the inbound sync webhook
const (
	EventTypeRegistered  = "name.registered"
	EventTypeRenewed     = "name.renewed"
	EventTypeTransferred = "name.transferred"
)

// RegistrationPayload is the JSON body the frontend (or any trusted
// notifier) posts right after a confirmed transaction. Only name and
// owner are required; everything else is best effort and re-verified
// against the ledger before use.
type RegistrationPayload struct {
	// Event selects the lifecycle kind; empty means name.registered
	Event string `json:"event,omitempty"`
	// Name is the registered handle (any casing; normalized server-side)
	Name string `json:"name"`
	// Owner is the controlling address
	Owner string `json:"owner"`
	// ExpiresAt is the registration expiry as a Unix timestamp
	ExpiresAt int64 `json:"expiresAt,omitempty"`
	// IsPremium mirrors the contract's premium flag
	IsPremium bool `json:"isPremium,omitempty"`
	// NameHash is the hex keccak fingerprint; recomputed when absent
	NameHash string `json:"nameHash,omitempty"`
	// TransactionHash points at the confirming transaction
	TransactionHash string `json:"transactionHash,omitempty"`
	// BlockNumber is the confirming block
	BlockNumber uint64 `json:"blockNumber,omitempty"`
	// OriginChainNamespace/OriginChainID identify the registrant's source chain
	OriginChainNamespace string `json:"originChainNamespace,omitempty"`
	OriginChainID        string `json:"originChainId,omitempty"`
}

// ToEvent converts the payload into a domain event. No validation here;
// the reconciler owns that.
func (p *RegistrationPayload) ToEvent() domain.RegistrationEvent {
	kind := domain.EventKindRegistered
	switch p.Event {
	case EventTypeRenewed:
		kind = domain.EventKindRenewed
	case EventTypeTransferred:
		kind = domain.EventKindTransferred
	}

	ev := domain.RegistrationEvent{
		Kind:        kind,
		Name:        p.Name,
		Owner:       p.Owner,
		IsPremium:   p.IsPremium,
		TxHash:      p.TransactionHash,
		BlockNumber: p.BlockNumber,
		Origin: domain.OriginChain{
			Namespace: p.OriginChainNamespace,
			ChainID:   p.OriginChainID,
		},
	}
	if p.NameHash != "" {
		ev.NameHash = common.HexToHash(p.NameHash)
	}
	if p.ExpiresAt > 0 {
		ev.ExpiresAt = unixTime(p.ExpiresAt)
	}
	return ev
}
