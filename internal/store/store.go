package store

import (
	"context"
	"time"

	"github.com/push-name-service/pns-indexer/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetNameDocument retrieves a cached name document by normalized name.
	// Returns (nil, nil) when no document exists.
	GetNameDocument(ctx context.Context, name string) (*schema.NameDocument, error)

	// ListActiveNamesByOwner retrieves all unexpired documents owned by the
	// given lowercase address.
	ListActiveNamesByOwner(ctx context.Context, owner string, now time.Time) ([]schema.NameDocument, error)

	// CreateNameDocuments inserts documents that do not yet exist and
	// leaves existing rows untouched. Returns the number actually created.
	CreateNameDocuments(ctx context.Context, docs []schema.NameDocument) (int64, error)

	// SaveNameDocument writes a document unconditionally, replacing any
	// existing row for the same name.
	SaveNameDocument(ctx context.Context, doc *schema.NameDocument) error

	// RaiseExpiry moves a document's expiry forward. A write that would
	// lower the stored expiry is a no-op: expiry is monotonic.
	RaiseExpiry(ctx context.Context, name string, expiresAt time.Time, txHash string, blockNumber uint64) error

	// UpdateOwner rewrites the owner of a cached document after a transfer
	UpdateOwner(ctx context.Context, name, owner, txHash string, blockNumber uint64) error

	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error

	// RecordSyncRun persists the outcome of one reconciliation pass
	RecordSyncRun(ctx context.Context, run *schema.SyncRun) error
	// ListSyncRuns retrieves the most recent runs, newest first
	ListSyncRuns(ctx context.Context, limit int) ([]schema.SyncRun, error)
}
