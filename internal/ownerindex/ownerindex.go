// Package ownerindex answers "which names does this address own". The
// cache gives a cheap answer; when the caller distrusts it, a chunked
// log scan rebuilds the set straight from the ledger and re-verifies
// each candidate against current contract state.
package ownerindex

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/gateway"
	"github.com/push-name-service/pns-indexer/internal/logger"
	"github.com/push-name-service/pns-indexer/internal/store"
)

// DefaultLookbackBlocks bounds the chain scan; older registrations than
// this have either been renewed (emitting fresh events) or expired.
const DefaultLookbackBlocks = uint64(50000)

// Source identifies which strategy produced a result
type Source string

const (
	SourceCache Source = "cache"
	SourceChain Source = "chain"
)

// OwnedNames is the answer for one owner
type OwnedNames struct {
	Owner string              `json:"owner"`
	Names []domain.NameRecord `json:"names"`
	// Source reports where the answer came from; cache answers are only
	// as fresh as the last reconciliation.
	Source Source `json:"source"`
	// Partial is true when some scan chunks failed and the set may be
	// incomplete.
	Partial bool `json:"partial"`
}

// Config tunes the chain-scan fallback
type Config struct {
	LookbackBlocks uint64
}

// Builder resolves name ownership sets
type Builder struct {
	gw    gateway.Gateway
	store store.Store
	clock adapter.Clock
	cfg   Config
}

// New creates an ownership index builder
func New(gw gateway.Gateway, st store.Store, clock adapter.Clock, cfg Config) *Builder {
	if cfg.LookbackBlocks == 0 {
		cfg.LookbackBlocks = DefaultLookbackBlocks
	}
	return &Builder{gw: gw, store: st, clock: clock, cfg: cfg}
}

// NamesOwnedBy returns the owner's active names from the cache
func (b *Builder) NamesOwnedBy(ctx context.Context, owner string) (*OwnedNames, error) {
	owner = domain.NormalizeAddress(owner)
	if !common.IsHexAddress(owner) {
		return nil, fmt.Errorf("%w: invalid address %q", domain.ErrValidation, owner)
	}

	docs, err := b.store.ListActiveNamesByOwner(ctx, owner, b.clock.Now())
	if err != nil {
		return nil, err
	}

	names := make([]domain.NameRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := store.RecordFromDocument(&doc)
		if err != nil {
			logger.WarnCtx(ctx, "corrupt cache document", zap.String("name", doc.Name), zap.Error(err))
			continue
		}
		names = append(names, *rec)
	}

	return &OwnedNames{Owner: owner, Names: names, Source: SourceCache}, nil
}

// FromChain rebuilds the ownership set from ledger logs. Each candidate
// from the scan is re-checked against the current record: a name the
// address registered but later transferred away or let expire is
// filtered out here, which also drops the transfer-sender false
// positives the topic filter lets through.
func (b *Builder) FromChain(ctx context.Context, owner string) (*OwnedNames, error) {
	owner = domain.NormalizeAddress(owner)
	if !common.IsHexAddress(owner) {
		return nil, fmt.Errorf("%w: invalid address %q", domain.ErrValidation, owner)
	}

	head, err := b.gw.HeadBlock(ctx)
	if err != nil {
		return nil, err
	}
	from := uint64(0)
	if head > b.cfg.LookbackBlocks {
		from = head - b.cfg.LookbackBlocks
	}

	events, partial, err := b.gw.NamesByOwnerLogs(ctx, common.HexToAddress(owner), from, head)
	if err != nil {
		return nil, err
	}

	candidates := map[string]struct{}{}
	for _, ev := range events {
		candidates[ev.Name] = struct{}{}
	}

	now := b.clock.Now()
	names := make([]domain.NameRecord, 0, len(candidates))
	for name := range candidates {
		record, err := b.gw.GetNameRecord(ctx, name)
		if err != nil {
			logger.WarnCtx(ctx, "candidate verification failed",
				zap.String("name", name),
				zap.Error(err))
			partial = true
			continue
		}
		if domain.NormalizeAddress(record.Owner) != owner || !record.Active(now) {
			continue
		}
		names = append(names, *record)
	}

	return &OwnedNames{Owner: owner, Names: names, Source: SourceChain, Partial: partial}, nil
}
