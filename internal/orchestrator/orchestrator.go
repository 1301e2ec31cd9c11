// Package orchestrator drives name mutations end to end: validate
// against fresh ledger state, price, submit through the wallet, wait for
// confirmation, then patch the cache. Each user action gets its own flow
// value; a flow that reached a terminal state is never reused.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/gateway"
	"github.com/push-name-service/pns-indexer/internal/logger"
	"github.com/push-name-service/pns-indexer/internal/resolver"
	"github.com/push-name-service/pns-indexer/internal/store"
	"github.com/push-name-service/pns-indexer/internal/wallet"
)

// State is one stage of a mutation flow
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateConfirming State = "confirming"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Result is the terminal outcome of one flow
type Result struct {
	State  State       `json:"state"`
	TxHash common.Hash `json:"tx_hash"`
	Err    error       `json:"-"`
}

// flow tracks the state machine for a single user action
type flow struct {
	action string
	state  State
}

func newFlow(action string) *flow {
	return &flow{action: action, state: StateIdle}
}

func (f *flow) advance(ctx context.Context, to State) {
	logger.DebugCtx(ctx, "flow transition",
		zap.String("action", f.action),
		zap.String("from", string(f.state)),
		zap.String("to", string(to)))
	f.state = to
}

func (f *flow) fail(err error) (*Result, error) {
	f.state = StateFailed
	return &Result{State: StateFailed, Err: err}, err
}

func (f *flow) succeed(txHash common.Hash) (*Result, error) {
	f.state = StateSucceeded
	return &Result{State: StateSucceeded, TxHash: txHash}, nil
}

// Orchestrator executes name mutations against the ledger
type Orchestrator struct {
	gw       gateway.Gateway
	wallet   wallet.Wallet
	resolver *resolver.Resolver
	store    store.Store
	clock    adapter.Clock
}

// New creates an orchestrator
func New(gw gateway.Gateway, w wallet.Wallet, r *resolver.Resolver, st store.Store, clock adapter.Clock) *Orchestrator {
	return &Orchestrator{gw: gw, wallet: w, resolver: r, store: st, clock: clock}
}

// Register registers an available name for the wallet account. Validation
// runs immediately before submission: availability resolved earlier by
// the UI is advisory only and is not trusted here.
func (o *Orchestrator) Register(ctx context.Context, name string) (*Result, error) {
	f := newFlow("register")
	name = domain.NormalizeName(name)

	f.advance(ctx, StateValidating)
	avail, err := o.resolver.Resolve(ctx, name)
	if err != nil {
		return f.fail(err)
	}
	if avail.Status != resolver.StatusAvailable {
		return f.fail(fmt.Errorf("%w: name %q is %s", domain.ErrValidation, name, avail.Status))
	}

	data, err := o.gw.BuildRegisterCall(name)
	if err != nil {
		return f.fail(err)
	}

	return o.submitAndConfirm(ctx, f, wallet.TxRequest{
		To:    o.gw.ContractAddress(),
		Value: avail.Fee,
		Data:  data,
	}, func(ctx context.Context, txHash common.Hash, blockNumber uint64) {
		o.cacheRecord(ctx, name, txHash, blockNumber)
	})
}

// Renew extends an existing registration by one period. The renewal fee
// equals the registration fee for the same name.
func (o *Orchestrator) Renew(ctx context.Context, name string) (*Result, error) {
	f := newFlow("renew")
	name = domain.NormalizeName(name)

	f.advance(ctx, StateValidating)
	record, err := o.gw.GetNameRecord(ctx, name)
	if err != nil {
		return f.fail(err)
	}

	fee, err := o.gw.RegistrationFee(ctx, record.NameHash)
	if err != nil {
		return f.fail(err)
	}

	data, err := o.gw.BuildRenewCall(name)
	if err != nil {
		return f.fail(err)
	}

	return o.submitAndConfirm(ctx, f, wallet.TxRequest{
		To:    o.gw.ContractAddress(),
		Value: fee,
		Data:  data,
	}, func(ctx context.Context, txHash common.Hash, blockNumber uint64) {
		// re-read rather than compute: the contract decides the new expiry
		fresh, err := o.gw.GetNameRecord(ctx, name)
		if err != nil {
			logger.WarnCtx(ctx, "cache refresh after renew failed", zap.String("name", name), zap.Error(err))
			return
		}
		if err := o.store.RaiseExpiry(ctx, name, fresh.ExpiresAt, txHash.Hex(), blockNumber); err != nil {
			logger.WarnCtx(ctx, "cache expiry update failed", zap.String("name", name), zap.Error(err))
		}
	})
}

// Transfer hands a name to another account. Only the current owner may
// transfer; ownership is checked against live ledger state.
func (o *Orchestrator) Transfer(ctx context.Context, name string, newOwner common.Address) (*Result, error) {
	f := newFlow("transfer")
	name = domain.NormalizeName(name)

	f.advance(ctx, StateValidating)
	record, err := o.gw.GetNameRecord(ctx, name)
	if err != nil {
		return f.fail(err)
	}
	if domain.NormalizeAddress(record.Owner) != domain.NormalizeAddress(o.wallet.Account().Hex()) {
		return f.fail(fmt.Errorf("%w: %s owns %q", domain.ErrNotOwner, record.Owner, name))
	}

	data, err := o.gw.BuildTransferCall(name, newOwner)
	if err != nil {
		return f.fail(err)
	}

	return o.submitAndConfirm(ctx, f, wallet.TxRequest{
		To:   o.gw.ContractAddress(),
		Data: data,
	}, func(ctx context.Context, txHash common.Hash, blockNumber uint64) {
		owner := domain.NormalizeAddress(newOwner.Hex())
		if err := o.store.UpdateOwner(ctx, name, owner, txHash.Hex(), blockNumber); err != nil {
			logger.WarnCtx(ctx, "cache owner update failed", zap.String("name", name), zap.Error(err))
		}
	})
}

// SetMetadata replaces the profile metadata attached to a name
func (o *Orchestrator) SetMetadata(ctx context.Context, name string, md domain.Metadata) (*Result, error) {
	f := newFlow("set_metadata")
	name = domain.NormalizeName(name)

	f.advance(ctx, StateValidating)
	record, err := o.gw.GetNameRecord(ctx, name)
	if err != nil {
		return f.fail(err)
	}
	if domain.NormalizeAddress(record.Owner) != domain.NormalizeAddress(o.wallet.Account().Hex()) {
		return f.fail(fmt.Errorf("%w: %s owns %q", domain.ErrNotOwner, record.Owner, name))
	}

	data, err := o.gw.BuildSetMetadataCall(name, md)
	if err != nil {
		return f.fail(err)
	}

	return o.submitAndConfirm(ctx, f, wallet.TxRequest{
		To:   o.gw.ContractAddress(),
		Data: data,
	}, func(ctx context.Context, txHash common.Hash, blockNumber uint64) {
		o.cacheRecord(ctx, name, txHash, blockNumber)
	})
}

// SetPrimary points the wallet account's reverse record at a name, so
// address-to-name lookups resolve to it. Only the name's current owner
// may claim it as primary.
func (o *Orchestrator) SetPrimary(ctx context.Context, name string) (*Result, error) {
	f := newFlow("set_primary")
	name = domain.NormalizeName(name)

	f.advance(ctx, StateValidating)
	record, err := o.gw.GetNameRecord(ctx, name)
	if err != nil {
		return f.fail(err)
	}
	if domain.NormalizeAddress(record.Owner) != domain.NormalizeAddress(o.wallet.Account().Hex()) {
		return f.fail(fmt.Errorf("%w: %s owns %q", domain.ErrNotOwner, record.Owner, name))
	}

	data, err := o.gw.BuildSetPrimaryNameCall(name)
	if err != nil {
		return f.fail(err)
	}

	return o.submitAndConfirm(ctx, f, wallet.TxRequest{
		To:   o.gw.ContractAddress(),
		Data: data,
	}, func(context.Context, common.Hash, uint64) {
		// the reverse record lives only on the ledger; nothing cached
	})
}

// submitAndConfirm runs the shared Submitting → Confirming tail of every
// flow. The write-through callback runs only on success and is strictly
// best effort: the ledger already holds the truth, the reconciler will
// catch the cache up if the write fails here.
func (o *Orchestrator) submitAndConfirm(ctx context.Context, f *flow, req wallet.TxRequest, writeThrough func(ctx context.Context, txHash common.Hash, blockNumber uint64)) (*Result, error) {
	f.advance(ctx, StateSubmitting)

	if req.Value != nil {
		// balance pre-check before asking the wallet to sign
		balance, err := o.wallet.Balance(ctx)
		if err == nil && balance.Cmp(req.Value) < 0 {
			return f.fail(fmt.Errorf("%w: need at least %s wei, have %s wei", domain.ErrInsufficientFunds, req.Value, balance))
		}
	}

	handle, err := o.wallet.Submit(ctx, req)
	if err != nil {
		return f.fail(err)
	}

	// once the wallet accepted, the submission is not cancelled from our
	// side; confirmation waits on its own timeout.
	f.advance(ctx, StateConfirming)
	receipt, err := handle.Wait(ctx)
	if err != nil {
		res, failErr := f.fail(err)
		res.TxHash = handle.Hash()
		return res, failErr
	}

	// a nil store means no cache to maintain (CLI without database);
	// the reconciler picks the change up from the ledger.
	if o.store != nil {
		writeThrough(ctx, handle.Hash(), receipt.BlockNumber.Uint64())
	}

	logger.InfoCtx(ctx, "flow confirmed",
		zap.String("action", f.action),
		zap.String("txHash", handle.Hash().Hex()))
	return f.succeed(handle.Hash())
}

// cacheRecord re-reads the full record and metadata and writes the cache
// document. Best effort only.
func (o *Orchestrator) cacheRecord(ctx context.Context, name string, txHash common.Hash, blockNumber uint64) {
	record, err := o.gw.GetNameRecord(ctx, name)
	if err != nil {
		logger.WarnCtx(ctx, "cache refresh failed", zap.String("name", name), zap.Error(err))
		return
	}

	if md, err := o.gw.GetMetadata(ctx, name); err == nil {
		record.Metadata = md
	}

	doc, err := store.DocumentFromRecord(record, txHash.Hex(), blockNumber)
	if err != nil {
		logger.WarnCtx(ctx, "cache document build failed", zap.String("name", name), zap.Error(err))
		return
	}
	if err := o.store.SaveNameDocument(ctx, &doc); err != nil {
		logger.WarnCtx(ctx, "cache write-through failed", zap.String("name", name), zap.Error(err))
	}
}
