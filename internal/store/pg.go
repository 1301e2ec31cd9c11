package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/push-name-service/pns-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the cache tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.NameDocument{},
		&schema.KeyValueStore{},
		&schema.SyncRun{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a
// GORM database connection. Zero values fall back to defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// calculateSafeBatchSize keeps bulk inserts under PostgreSQL's 65535
// extended-protocol parameter limit. fieldsPerRecord is the column count
// of the inserted struct; headroom covers ON CONFLICT and bookkeeping
// parameters added per batch.
func calculateSafeBatchSize(totalRecords, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	safeBatchSize := max((maxParams-totalHeadroom)/fieldsPerRecord, 1)
	if safeBatchSize > totalRecords {
		return totalRecords
	}
	return safeBatchSize
}

// GetNameDocument retrieves a cached name document by normalized name
func (s *pgStore) GetNameDocument(ctx context.Context, name string) (*schema.NameDocument, error) {
	var doc schema.NameDocument
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get name document: %w", err)
	}
	return &doc, nil
}

// ListActiveNamesByOwner retrieves all unexpired documents for an owner
func (s *pgStore) ListActiveNamesByOwner(ctx context.Context, owner string, now time.Time) ([]schema.NameDocument, error) {
	var docs []schema.NameDocument
	err := s.db.WithContext(ctx).
		Where("owner = ? AND expires_at > ?", owner, now).
		Order("name ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list names by owner: %w", err)
	}
	return docs, nil
}

// CreateNameDocuments inserts new documents, skipping names already cached.
// The skip makes reconciliation idempotent: replaying a window never
// rewrites rows that exist.
func (s *pgStore) CreateNameDocuments(ctx context.Context, docs []schema.NameDocument) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	batchSize := calculateSafeBatchSize(len(docs), 13)
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		CreateInBatches(docs, batchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create name documents: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SaveNameDocument writes a document unconditionally
func (s *pgStore) SaveNameDocument(ctx context.Context, doc *schema.NameDocument) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(doc).Error
	if err != nil {
		return fmt.Errorf("failed to save name document: %w", err)
	}
	return nil
}

// RaiseExpiry moves a document's expiry forward, never backward
func (s *pgStore) RaiseExpiry(ctx context.Context, name string, expiresAt time.Time, txHash string, blockNumber uint64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.NameDocument{}).
		Where("name = ? AND expires_at < ?", name, expiresAt).
		Updates(map[string]interface{}{
			"expires_at":   expiresAt,
			"tx_hash":      txHash,
			"block_number": blockNumber,
			"updated_at":   time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to raise expiry: %w", err)
	}
	return nil
}

// UpdateOwner rewrites the owner of a cached document after a transfer
func (s *pgStore) UpdateOwner(ctx context.Context, name, owner, txHash string, blockNumber uint64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.NameDocument{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"owner":        owner,
			"tx_hash":      txHash,
			"block_number": blockNumber,
			"updated_at":   time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}
	return nil
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *pgStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	key := fmt.Sprintf("block_cursor:%s", chain)

	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *pgStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	kv := schema.KeyValueStore{
		Key:   fmt.Sprintf("block_cursor:%s", chain),
		Value: strconv.FormatUint(blockNumber, 10),
	}

	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}
	return nil
}

// RecordSyncRun persists the outcome of one reconciliation pass
func (s *pgStore) RecordSyncRun(ctx context.Context, run *schema.SyncRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	return nil
}

// ListSyncRuns retrieves the most recent runs, newest first
func (s *pgStore) ListSyncRuns(ctx context.Context, limit int) ([]schema.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []schema.SyncRun
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	return runs, nil
}
