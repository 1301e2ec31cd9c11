package store

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/store/schema"
)

// DocumentFromRecord converts an on-ledger record into its cache row
func DocumentFromRecord(rec *domain.NameRecord, txHash string, blockNumber uint64) (schema.NameDocument, error) {
	md, err := marshalMetadata(rec.Metadata)
	if err != nil {
		return schema.NameDocument{}, err
	}

	return schema.NameDocument{
		Name:            domain.NormalizeName(rec.Name),
		NameHash:        rec.NameHash.Hex(),
		Owner:           domain.NormalizeAddress(rec.Owner),
		RegisteredAt:    rec.RegisteredAt,
		ExpiresAt:       rec.ExpiresAt,
		IsPremium:       rec.IsPremium,
		OriginNamespace: rec.Origin.Namespace,
		OriginChainID:   rec.Origin.ChainID,
		Metadata:        md,
		TxHash:          txHash,
		BlockNumber:     blockNumber,
	}, nil
}

// DocumentFromEvent converts a registration event plus fetched metadata
// into a cache row. Only registration events carry enough state to seed a
// document; renewals and transfers patch existing rows instead.
func DocumentFromEvent(ev domain.RegistrationEvent, md domain.Metadata) (schema.NameDocument, error) {
	raw, err := marshalMetadata(md)
	if err != nil {
		return schema.NameDocument{}, err
	}

	return schema.NameDocument{
		Name:            domain.NormalizeName(ev.Name),
		NameHash:        ev.NameHash.Hex(),
		Owner:           domain.NormalizeAddress(ev.Owner),
		RegisteredAt:    ev.ExpiresAt.AddDate(-1, 0, 0), // registrations run one year; the event carries only expiry
		ExpiresAt:       ev.ExpiresAt,
		IsPremium:       ev.IsPremium,
		OriginNamespace: ev.Origin.Namespace,
		OriginChainID:   ev.Origin.ChainID,
		Metadata:        raw,
		TxHash:          ev.TxHash,
		BlockNumber:     ev.BlockNumber,
	}, nil
}

// RecordFromDocument converts a cache row back into the domain record
func RecordFromDocument(doc *schema.NameDocument) (*domain.NameRecord, error) {
	md := domain.Metadata{}
	if len(doc.Metadata) > 0 {
		if err := json.Unmarshal(doc.Metadata, &md); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for %s: %w", doc.Name, err)
		}
	}

	return &domain.NameRecord{
		Name:         doc.Name,
		NameHash:     common.HexToHash(doc.NameHash),
		Owner:        doc.Owner,
		RegisteredAt: doc.RegisteredAt,
		ExpiresAt:    doc.ExpiresAt,
		IsPremium:    doc.IsPremium,
		Origin: domain.OriginChain{
			Namespace: doc.OriginNamespace,
			ChainID:   doc.OriginChainID,
		},
		Metadata: md,
	}, nil
}

func marshalMetadata(md domain.Metadata) ([]byte, error) {
	if md == nil {
		md = domain.Metadata{}
	}
	raw, err := json.Marshal(md)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return raw, nil
}
