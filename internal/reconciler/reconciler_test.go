package reconciler_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/mocks"
	"github.com/push-name-service/pns-indexer/internal/reconciler"
	"github.com/push-name-service/pns-indexer/internal/store/schema"
)

const testOwner = "0xabcdef0123456789abcdef0123456789abcdef01"

type testReconcilerMocks struct {
	ctrl       *gomock.Controller
	gateway    *mocks.MockGateway
	store      *mocks.MockStore
	clock      *mocks.MockClock
	reconciler *reconciler.Reconciler
}

func setupTestReconciler(t *testing.T) *testReconcilerMocks {
	ctrl := gomock.NewController(t)

	tm := &testReconcilerMocks{
		ctrl:    ctrl,
		gateway: mocks.NewMockGateway(ctrl),
		store:   mocks.NewMockStore(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}
	tm.reconciler = reconciler.New(tm.gateway, tm.store, tm.clock, reconciler.Config{
		Chain:           domain.ChainPushDonut,
		LookbackBlocks:  7200,
		MetadataWorkers: 2,
	})
	return tm
}

func (tm *testReconcilerMocks) expectClock() {
	now := time.Now()
	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()
}

func registeredEvent(name string, block uint64) domain.RegistrationEvent {
	return domain.RegistrationEvent{
		Kind:        domain.EventKindRegistered,
		Name:        name,
		Owner:       testOwner,
		ExpiresAt:   time.Now().Add(365 * 24 * time.Hour),
		TxHash:      "0xabc",
		BlockNumber: block,
	}
}

func TestRun_NoNewEvents(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()
	tm.expectClock()

	tm.gateway.EXPECT().HeadBlock(ctx).Return(uint64(100000), nil)
	tm.store.EXPECT().GetBlockCursor(ctx, "push:donut").Return(uint64(0), nil)
	tm.gateway.EXPECT().FilterRegistrationEvents(ctx, uint64(92800), uint64(100000)).Return(nil, 0, nil)
	tm.store.EXPECT().CreateNameDocuments(ctx, gomock.Nil()).Return(int64(0), nil)
	tm.store.EXPECT().SetBlockCursor(ctx, "push:donut", uint64(100000)).Return(nil)
	tm.store.EXPECT().RecordSyncRun(ctx, gomock.Any()).Return(nil)

	result, err := tm.reconciler.Run(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Synced)
	assert.Equal(t, 0, result.Skipped)
	assert.NotEmpty(t, result.RunID)
}

func TestRun_SyncsNewRegistrations(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()
	tm.expectClock()

	events := []domain.RegistrationEvent{
		registeredEvent("alice", 95000),
		registeredEvent("bob", 95001),
	}
	tm.gateway.EXPECT().HeadBlock(ctx).Return(uint64(100000), nil)
	tm.store.EXPECT().GetBlockCursor(ctx, "push:donut").Return(uint64(94000), nil)
	tm.gateway.EXPECT().FilterRegistrationEvents(ctx, uint64(92800), uint64(100000)).Return(events, 0, nil)
	tm.gateway.EXPECT().GetMetadata(ctx, "alice").Return(domain.Metadata{"url": "https://a.example"}, nil)
	tm.gateway.EXPECT().GetMetadata(ctx, "bob").Return(nil, domain.ErrChainUnavailable)
	tm.store.EXPECT().CreateNameDocuments(ctx, gomock.Len(2)).Return(int64(2), nil)
	tm.store.EXPECT().SetBlockCursor(ctx, "push:donut", uint64(100000)).Return(nil)
	tm.store.EXPECT().RecordSyncRun(ctx, gomock.Any()).Return(nil)

	result, err := tm.reconciler.Run(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.Synced)
	// the metadata failure downgrades, it never drops the registration
	assert.Equal(t, 0, result.Skipped)
}

func TestRun_ReplayIsIdempotent(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()
	tm.expectClock()

	events := []domain.RegistrationEvent{registeredEvent("alice", 95000)}
	tm.gateway.EXPECT().HeadBlock(ctx).Return(uint64(100000), nil)
	tm.store.EXPECT().GetBlockCursor(ctx, "push:donut").Return(uint64(99000), nil)
	tm.gateway.EXPECT().FilterRegistrationEvents(ctx, uint64(92800), uint64(100000)).Return(events, 0, nil)
	tm.gateway.EXPECT().GetMetadata(ctx, "alice").Return(domain.Metadata{}, nil)
	// insert is a conflict no-op for already-cached rows
	tm.store.EXPECT().CreateNameDocuments(ctx, gomock.Len(1)).Return(int64(0), nil)
	tm.store.EXPECT().SetBlockCursor(ctx, "push:donut", uint64(100000)).Return(nil)
	tm.store.EXPECT().RecordSyncRun(ctx, gomock.Any()).Return(nil)

	result, err := tm.reconciler.Run(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Synced)
}

func TestRun_ResumesFromCursorAfterOutage(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()
	tm.expectClock()

	// cursor far behind the lookback window: scan starts at cursor+1 to
	// avoid a gap
	tm.gateway.EXPECT().HeadBlock(ctx).Return(uint64(100000), nil)
	tm.store.EXPECT().GetBlockCursor(ctx, "push:donut").Return(uint64(50000), nil)
	tm.gateway.EXPECT().FilterRegistrationEvents(ctx, uint64(50001), uint64(100000)).Return(nil, 0, nil)
	tm.store.EXPECT().CreateNameDocuments(ctx, gomock.Nil()).Return(int64(0), nil)
	tm.store.EXPECT().SetBlockCursor(ctx, "push:donut", uint64(100000)).Return(nil)
	tm.store.EXPECT().RecordSyncRun(ctx, gomock.Any()).Return(nil)

	_, err := tm.reconciler.Run(ctx)

	assert.NoError(t, err)
}

func TestRun_InBatchDedupeKeepsLatest(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()
	tm.expectClock()

	early := registeredEvent("alice", 95000)
	late := registeredEvent("alice", 96000)
	late.TxHash = "0xlate"

	tm.gateway.EXPECT().HeadBlock(ctx).Return(uint64(100000), nil)
	tm.store.EXPECT().GetBlockCursor(ctx, "push:donut").Return(uint64(0), nil)
	tm.gateway.EXPECT().FilterRegistrationEvents(ctx, uint64(92800), uint64(100000)).
		Return([]domain.RegistrationEvent{early, late}, 0, nil)
	tm.gateway.EXPECT().GetMetadata(ctx, "alice").Return(domain.Metadata{}, nil)
	tm.store.EXPECT().CreateNameDocuments(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, docs []schema.NameDocument) (int64, error) {
			assert.Len(t, docs, 1)
			assert.Equal(t, "0xlate", docs[0].TxHash)
			return 1, nil
		})
	tm.store.EXPECT().SetBlockCursor(ctx, "push:donut", uint64(100000)).Return(nil)
	tm.store.EXPECT().RecordSyncRun(ctx, gomock.Any()).Return(nil)

	result, err := tm.reconciler.Run(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Synced)
}

func TestRun_AppliesRenewalsAndTransfers(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()
	tm.expectClock()

	newExpiry := time.Now().Add(2 * 365 * 24 * time.Hour)
	renewed := domain.RegistrationEvent{
		Kind: domain.EventKindRenewed, Name: "alice", Owner: testOwner,
		ExpiresAt: newExpiry, TxHash: "0xr", BlockNumber: 95000,
	}
	transferred := domain.RegistrationEvent{
		Kind: domain.EventKindTransferred, Name: "bob", Owner: testOwner,
		TxHash: "0xt", BlockNumber: 95001,
	}

	tm.gateway.EXPECT().HeadBlock(ctx).Return(uint64(100000), nil)
	tm.store.EXPECT().GetBlockCursor(ctx, "push:donut").Return(uint64(0), nil)
	tm.gateway.EXPECT().FilterRegistrationEvents(ctx, uint64(92800), uint64(100000)).
		Return([]domain.RegistrationEvent{renewed, transferred}, 0, nil)
	tm.store.EXPECT().CreateNameDocuments(ctx, gomock.Nil()).Return(int64(0), nil)
	tm.store.EXPECT().RaiseExpiry(ctx, "alice", newExpiry, "0xr", uint64(95000)).Return(nil)
	tm.store.EXPECT().UpdateOwner(ctx, "bob", testOwner, "0xt", uint64(95001)).Return(nil)
	tm.store.EXPECT().SetBlockCursor(ctx, "push:donut", uint64(100000)).Return(nil)
	tm.store.EXPECT().RecordSyncRun(ctx, gomock.Any()).Return(nil)

	result, err := tm.reconciler.Run(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Skipped)
}

func TestRun_PatchFailureCountsSkipped(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()
	tm.expectClock()

	renewed := domain.RegistrationEvent{
		Kind: domain.EventKindRenewed, Name: "alice", Owner: testOwner,
		ExpiresAt: time.Now().Add(time.Hour), TxHash: "0xr", BlockNumber: 95000,
	}

	tm.gateway.EXPECT().HeadBlock(ctx).Return(uint64(100000), nil)
	tm.store.EXPECT().GetBlockCursor(ctx, "push:donut").Return(uint64(0), nil)
	tm.gateway.EXPECT().FilterRegistrationEvents(ctx, uint64(92800), uint64(100000)).
		Return([]domain.RegistrationEvent{renewed}, 0, nil)
	tm.store.EXPECT().CreateNameDocuments(ctx, gomock.Nil()).Return(int64(0), nil)
	tm.store.EXPECT().RaiseExpiry(ctx, "alice", gomock.Any(), "0xr", uint64(95000)).Return(assert.AnError)
	tm.store.EXPECT().SetBlockCursor(ctx, "push:donut", uint64(100000)).Return(nil)
	tm.store.EXPECT().RecordSyncRun(ctx, gomock.Any()).Return(nil)

	result, err := tm.reconciler.Run(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
}

func TestRun_LedgerFailureAbortsRun(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()
	tm.expectClock()

	tm.gateway.EXPECT().HeadBlock(ctx).Return(uint64(0), domain.ErrChainUnavailable)
	tm.store.EXPECT().RecordSyncRun(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, run *schema.SyncRun) error {
			assert.False(t, run.Success)
			assert.NotEmpty(t, run.Error)
			return nil
		})

	result, err := tm.reconciler.Run(ctx)

	assert.ErrorIs(t, err, domain.ErrChainUnavailable)
	assert.Nil(t, result)
}

func TestProcessEvent_NewRegistration(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	ev := registeredEvent("Alice", 95000)
	tm.store.EXPECT().GetNameDocument(ctx, "alice").Return(nil, nil)
	tm.gateway.EXPECT().GetMetadata(ctx, "alice").Return(domain.Metadata{}, nil)
	tm.store.EXPECT().CreateNameDocuments(ctx, gomock.Len(1)).Return(int64(1), nil)

	synced, err := tm.reconciler.ProcessEvent(ctx, ev)

	assert.NoError(t, err)
	assert.True(t, synced)
}

func TestProcessEvent_AlreadyCached(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	ev := registeredEvent("alice", 95000)
	tm.store.EXPECT().GetNameDocument(ctx, "alice").Return(&schema.NameDocument{Name: "alice"}, nil)

	synced, err := tm.reconciler.ProcessEvent(ctx, ev)

	assert.NoError(t, err)
	assert.False(t, synced)
}

func TestProcessEvent_MissingFields(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	synced, err := tm.reconciler.ProcessEvent(context.Background(), domain.RegistrationEvent{Name: "alice"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, synced)
}

func TestProcessEvent_EmptyKindDefaultsToRegistered(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	ev := registeredEvent("alice", 95000)
	ev.Kind = ""
	tm.store.EXPECT().GetNameDocument(ctx, "alice").Return(nil, nil)
	tm.gateway.EXPECT().GetMetadata(ctx, "alice").Return(domain.Metadata{}, nil)
	tm.store.EXPECT().CreateNameDocuments(ctx, gomock.Len(1)).Return(int64(1), nil)

	synced, err := tm.reconciler.ProcessEvent(ctx, ev)

	assert.NoError(t, err)
	assert.True(t, synced)
}

func TestProcessEvent_Renewal(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	newExpiry := time.Now().Add(2 * 365 * 24 * time.Hour)
	ev := domain.RegistrationEvent{
		Kind: domain.EventKindRenewed, Name: "Alice", Owner: testOwner,
		ExpiresAt: newExpiry, TxHash: "0xr", BlockNumber: 95000,
	}
	tm.store.EXPECT().RaiseExpiry(ctx, "alice", newExpiry, "0xr", uint64(95000)).Return(nil)

	synced, err := tm.reconciler.ProcessEvent(ctx, ev)

	assert.NoError(t, err)
	assert.True(t, synced)
}

func TestProcessEvent_UnknownKind(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	ev := registeredEvent("alice", 95000)
	ev.Kind = "name.burned"

	synced, err := tm.reconciler.ProcessEvent(context.Background(), ev)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, synced)
}
