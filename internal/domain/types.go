package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	// ChainPushDonut represents the Push Chain Donut testnet
	ChainPushDonut Chain = "push:donut"
	// ChainPushMainnet represents the Push Chain mainnet
	ChainPushMainnet Chain = "push:mainnet"
)

// EventKind represents the lifecycle stage a name event describes
type EventKind string

const (
	EventKindRegistered  EventKind = "registered"
	EventKindRenewed     EventKind = "renewed"
	EventKindTransferred EventKind = "transferred"
)

// OriginChain identifies the chain namespace/id a registering account
// originated from. Registrations may arrive from any supported chain; the
// contract records the origin alongside the name.
type OriginChain struct {
	Namespace string `json:"namespace"` // e.g. "push", "eip155", "solana"
	ChainID   string `json:"chain_id"`  // e.g. "1", "11155111"
}

// String returns the CAIP-2 style representation, e.g. "eip155:1"
func (o OriginChain) String() string {
	if o.Namespace == "" {
		return ""
	}
	return o.Namespace + ":" + o.ChainID
}

// Metadata is the open key/value profile attached to a name.
// Keys mirror the contract's metadata fields (avatar, email, url,
// description, twitter, github, discord, telegram) but arbitrary custom
// keys are allowed.
type Metadata map[string]string

// NameRecord is the authoritative on-ledger state of one name
type NameRecord struct {
	Name         string      `json:"name"`      // normalized lowercase handle
	NameHash     common.Hash `json:"name_hash"` // ledger-side primary key
	Owner        string      `json:"owner"`     // controlling address
	RegisteredAt time.Time   `json:"registered_at"`
	ExpiresAt    time.Time   `json:"expires_at"` // strictly increases on renewal
	IsPremium    bool        `json:"is_premium"` // set at registration, immutable
	Origin       OriginChain `json:"origin"`
	Metadata     Metadata    `json:"metadata,omitempty"`
}

// Active reports whether the record is current (not yet expired) at the given time
func (r *NameRecord) Active(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

// RegistrationEvent is an immutable fact extracted from the ledger's event
// log. The reconciler folds a stream of these into cache documents.
type RegistrationEvent struct {
	Kind        EventKind   `json:"kind"`
	NameHash    common.Hash `json:"name_hash"`
	Name        string      `json:"name"`
	Owner       string      `json:"owner"`                // registrant / new owner (transfer)
	PrevOwner   string      `json:"prev_owner,omitempty"` // transfer only
	ExpiresAt   time.Time   `json:"expires_at"`
	IsPremium   bool        `json:"is_premium"`
	Origin      OriginChain `json:"origin"`
	TxHash      string      `json:"tx_hash"`
	BlockNumber uint64      `json:"block_number"`
}

// Valid reports whether the event carries the fields required to key and
// persist a cache document. Events from untrusted sources (webhook) must
// pass this before any write.
func (e *RegistrationEvent) Valid() bool {
	if strings.TrimSpace(e.Name) == "" {
		return false
	}
	if !common.IsHexAddress(e.Owner) {
		return false
	}
	return true
}

// NormalizeName canonicalizes a handle the same way the ledger does:
// surrounding whitespace stripped, then lowercased. Both the periodic and
// the webhook reconciliation paths must key documents by this form.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeAddress lowercases a hex address for use as a query key.
// The checksummed form is presentation only; the cache stores lowercase.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
