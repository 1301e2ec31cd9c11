package schema

import (
	"time"

	"gorm.io/datatypes"
)

// NameDocument represents the name_documents table - the cached mirror of
// one on-ledger name registration. The normalized lowercase name is the
// primary key; the ledger remains the source of truth and rows here are
// only ever reconciled toward it.
type NameDocument struct {
	// Name is the normalized (trimmed, lowercased) handle
	Name string `gorm:"column:name;primaryKey;type:text"`
	// NameHash is the keccak256 fingerprint of the normalized name, hex encoded
	NameHash string `gorm:"column:name_hash;not null;type:text;uniqueIndex"`
	// Owner is the controlling address, lowercase hex
	Owner string `gorm:"column:owner;not null;type:text;index:idx_name_documents_owner"`
	// RegisteredAt is the on-ledger registration timestamp
	RegisteredAt time.Time `gorm:"column:registered_at;not null"`
	// ExpiresAt only moves forward; renewals raise it, nothing lowers it
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	// IsPremium is fixed at registration time
	IsPremium bool `gorm:"column:is_premium;not null;default:false"`
	// OriginNamespace/OriginChainID record the registrant's source chain (CAIP-2 parts)
	OriginNamespace string `gorm:"column:origin_namespace;type:text"`
	OriginChainID   string `gorm:"column:origin_chain_id;type:text"`
	// Metadata holds the profile key/value pairs as a JSON object
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// TxHash/BlockNumber point at the event that last touched this row
	TxHash      string `gorm:"column:tx_hash;type:text"`
	BlockNumber uint64 `gorm:"column:block_number;not null;default:0"`
	// CreatedAt is when this row was first cached
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is bumped on every reconciliation touch
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the NameDocument model
func (NameDocument) TableName() string {
	return "name_documents"
}
