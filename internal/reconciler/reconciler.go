// Package reconciler keeps the cache converging toward ledger truth. The
// periodic path re-scans a recent block window and folds every lifecycle
// event it finds; the webhook path applies a single pushed event. Both
// paths share one write policy: idempotent, keyed by normalized name,
// expiry only ever raised.
package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/gateway"
	"github.com/push-name-service/pns-indexer/internal/logger"
	"github.com/push-name-service/pns-indexer/internal/store"
	"github.com/push-name-service/pns-indexer/internal/store/schema"
)

const (
	// DefaultLookbackBlocks re-scans roughly the last 24h of blocks. The
	// window deliberately overlaps previous runs: replays are free because
	// existing documents are skipped.
	DefaultLookbackBlocks = uint64(7200)

	defaultMetadataWorkers = 8
)

// Config tunes one reconciler instance
type Config struct {
	Chain           domain.Chain
	LookbackBlocks  uint64
	MetadataWorkers int
}

// RunResult reports the outcome of one periodic pass. Skipped counts
// events that could not be decoded or applied; their presence does not
// fail the run.
type RunResult struct {
	RunID     string        `json:"run_id"`
	FromBlock uint64        `json:"from_block"`
	ToBlock   uint64        `json:"to_block"`
	Synced    int64         `json:"synced"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}

// Reconciler folds ledger events into cache documents
type Reconciler struct {
	gw    gateway.Gateway
	store store.Store
	clock adapter.Clock
	cfg   Config
}

// New creates a reconciler
func New(gw gateway.Gateway, st store.Store, clock adapter.Clock, cfg Config) *Reconciler {
	if cfg.LookbackBlocks == 0 {
		cfg.LookbackBlocks = DefaultLookbackBlocks
	}
	if cfg.MetadataWorkers == 0 {
		cfg.MetadataWorkers = defaultMetadataWorkers
	}
	return &Reconciler{gw: gw, store: st, clock: clock, cfg: cfg}
}

// Run executes one periodic reconciliation pass. A ledger failure aborts
// the run; anything narrower is isolated per event. Finding nothing new
// is a successful outcome, not an error.
func (r *Reconciler) Run(ctx context.Context) (*RunResult, error) {
	started := r.clock.Now()
	runID := ulid.Make().String()

	head, err := r.gw.HeadBlock(ctx)
	if err != nil {
		r.recordRun(ctx, runID, "schedule", 0, 0, 0, 0, started, err)
		return nil, err
	}

	from := uint64(0)
	if head > r.cfg.LookbackBlocks {
		from = head - r.cfg.LookbackBlocks
	}
	// resume past the cursor when it is ahead of the lookback window, so a
	// long outage does not leave a gap.
	cursor, err := r.store.GetBlockCursor(ctx, string(r.cfg.Chain))
	if err == nil && cursor > 0 && cursor+1 < from {
		from = cursor + 1
	}

	events, skipped, err := r.gw.FilterRegistrationEvents(ctx, from, head)
	if err != nil {
		r.recordRun(ctx, runID, "schedule", from, head, 0, 0, started, err)
		return nil, err
	}

	synced, applySkipped := r.fold(ctx, events)
	skipped += applySkipped

	if err := r.store.SetBlockCursor(ctx, string(r.cfg.Chain), head); err != nil {
		logger.WarnCtx(ctx, "cursor advance failed", zap.Error(err))
	}

	r.recordRun(ctx, runID, "schedule", from, head, synced, skipped, started, nil)

	result := &RunResult{
		RunID:     runID,
		FromBlock: from,
		ToBlock:   head,
		Synced:    synced,
		Skipped:   skipped,
		Duration:  r.clock.Since(started),
	}
	logger.InfoCtx(ctx, "reconciliation run complete",
		zap.String("runId", runID),
		zap.Uint64("fromBlock", from),
		zap.Uint64("toBlock", head),
		zap.Int64("synced", synced),
		zap.Int("skipped", skipped))
	return result, nil
}

// fold applies a batch of events. Registrations become new documents
// (skipped when cached already, including duplicates within the batch);
// renewals raise expiry; transfers rewrite the owner.
func (r *Reconciler) fold(ctx context.Context, events []domain.RegistrationEvent) (int64, int) {
	var registrations []domain.RegistrationEvent
	seen := map[string]int{}
	skipped := 0

	var patches []domain.RegistrationEvent

	for _, ev := range events {
		switch ev.Kind {
		case domain.EventKindRegistered:
			// in-batch dedupe: a name registered, lapsed and re-registered
			// inside one window keeps only the latest event.
			if idx, ok := seen[ev.Name]; ok {
				if ev.BlockNumber >= registrations[idx].BlockNumber {
					registrations[idx] = ev
				}
				continue
			}
			seen[ev.Name] = len(registrations)
			registrations = append(registrations, ev)
		case domain.EventKindRenewed, domain.EventKindTransferred:
			patches = append(patches, ev)
		default:
			skipped++
		}
	}

	docs := r.buildDocuments(ctx, registrations)

	synced, err := r.store.CreateNameDocuments(ctx, docs)
	if err != nil {
		logger.ErrorCtx(ctx, err)
		return 0, skipped + len(docs)
	}

	for _, ev := range patches {
		if err := r.applyPatch(ctx, ev); err != nil {
			logger.WarnCtx(ctx, "event apply failed",
				zap.String("name", ev.Name),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err))
			skipped++
		}
	}

	return synced, skipped
}

// buildDocuments fetches metadata for each new registration on a bounded
// worker pool and assembles cache rows. A metadata failure downgrades to
// an empty metadata object; the registration itself is never dropped.
func (r *Reconciler) buildDocuments(ctx context.Context, registrations []domain.RegistrationEvent) []schema.NameDocument {
	if len(registrations) == 0 {
		return nil
	}

	metadatas := make([]domain.Metadata, len(registrations))
	var mu sync.Mutex

	pool := pond.NewPool(r.cfg.MetadataWorkers, pond.WithContext(ctx))
	for i, ev := range registrations {
		pool.Submit(func() {
			md, err := r.gw.GetMetadata(ctx, ev.Name)
			if err != nil {
				logger.WarnCtx(ctx, "metadata fetch failed",
					zap.String("name", ev.Name),
					zap.Error(err))
				md = domain.Metadata{}
			}
			mu.Lock()
			metadatas[i] = md
			mu.Unlock()
		})
	}
	pool.StopAndWait()

	docs := make([]schema.NameDocument, 0, len(registrations))
	for i, ev := range registrations {
		doc, err := store.DocumentFromEvent(ev, metadatas[i])
		if err != nil {
			logger.WarnCtx(ctx, "document build failed", zap.String("name", ev.Name), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

func (r *Reconciler) applyPatch(ctx context.Context, ev domain.RegistrationEvent) error {
	switch ev.Kind {
	case domain.EventKindRenewed:
		return r.store.RaiseExpiry(ctx, ev.Name, ev.ExpiresAt, ev.TxHash, ev.BlockNumber)
	case domain.EventKindTransferred:
		return r.store.UpdateOwner(ctx, ev.Name, ev.Owner, ev.TxHash, ev.BlockNumber)
	default:
		return fmt.Errorf("unexpected event kind %q", ev.Kind)
	}
}

// ProcessEvent applies one externally pushed event, the webhook path.
// Returns true when the event changed the cache, false on an idempotent
// skip. Validation failures return domain.ErrValidation.
func (r *Reconciler) ProcessEvent(ctx context.Context, ev domain.RegistrationEvent) (bool, error) {
	if !ev.Valid() {
		return false, fmt.Errorf("%w: name and owner are required", domain.ErrValidation)
	}

	ev.Name = domain.NormalizeName(ev.Name)
	ev.Owner = domain.NormalizeAddress(ev.Owner)
	if ev.Kind == "" {
		ev.Kind = domain.EventKindRegistered
	}

	switch ev.Kind {
	case domain.EventKindRegistered:
		existing, err := r.store.GetNameDocument(ctx, ev.Name)
		if err != nil {
			return false, err
		}
		if existing != nil {
			logger.DebugCtx(ctx, "name already cached, skipping", zap.String("name", ev.Name))
			return false, nil
		}

		md, err := r.gw.GetMetadata(ctx, ev.Name)
		if err != nil {
			md = domain.Metadata{}
		}
		doc, err := store.DocumentFromEvent(ev, md)
		if err != nil {
			return false, err
		}
		created, err := r.store.CreateNameDocuments(ctx, []schema.NameDocument{doc})
		if err != nil {
			return false, err
		}
		return created > 0, nil

	case domain.EventKindRenewed, domain.EventKindTransferred:
		if err := r.applyPatch(ctx, ev); err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, fmt.Errorf("%w: unknown event kind %q", domain.ErrValidation, ev.Kind)
	}
}

func (r *Reconciler) recordRun(ctx context.Context, runID, trigger string, from, to uint64, synced int64, skipped int, started time.Time, runErr error) {
	run := &schema.SyncRun{
		ID:         runID,
		Chain:      string(r.cfg.Chain),
		Trigger:    trigger,
		FromBlock:  from,
		ToBlock:    to,
		Synced:     int(synced),
		Skipped:    skipped,
		Success:    runErr == nil,
		StartedAt:  started,
		FinishedAt: r.clock.Now(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := r.store.RecordSyncRun(ctx, run); err != nil {
		logger.WarnCtx(ctx, "sync run record failed", zap.Error(err))
	}
}
