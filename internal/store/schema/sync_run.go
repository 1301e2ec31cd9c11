package schema

import "time"

// SyncRun represents the sync_runs table - one row per reconciliation
// pass, kept for observability and webhook acknowledgement payloads.
type SyncRun struct {
	// ID is a ULID assigned at run start
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Chain is the CAIP-2 identifier the run scanned
	Chain string `gorm:"column:chain;not null;type:text;index"`
	// Trigger records what started the run (schedule, webhook, manual)
	Trigger string `gorm:"column:trigger;not null;type:text"`
	// FromBlock/ToBlock bound the scanned window
	FromBlock uint64 `gorm:"column:from_block;not null"`
	ToBlock   uint64 `gorm:"column:to_block;not null"`
	// Synced counts documents newly cached by this run
	Synced int `gorm:"column:synced;not null;default:0"`
	// Skipped counts logs that failed to decode and were passed over
	Skipped int `gorm:"column:skipped;not null;default:0"`
	// Success is false when the run aborted before completing its window
	Success bool `gorm:"column:success;not null;default:false"`
	// Error holds the failure message for unsuccessful runs
	Error string `gorm:"column:error;type:text"`

	StartedAt  time.Time `gorm:"column:started_at;not null"`
	FinishedAt time.Time `gorm:"column:finished_at;not null"`
}

// TableName specifies the table name for the SyncRun model
func (SyncRun) TableName() string {
	return "sync_runs"
}
