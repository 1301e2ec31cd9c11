package gateway

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/logger"
)

// logScanChunk is the block span per eth_getLogs call. Providers cap
// result counts, not spans, so the chunk is halved on pushback.
const logScanChunk = uint64(5000)

func (g *gateway) FilterRegistrationEvents(ctx context.Context, from, to uint64) ([]domain.RegistrationEvent, int, error) {
	logs, err := g.scanLogs(ctx, g.lifecycleQuery(from, to), false)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: filter logs %d-%d: %s", domain.ErrChainUnavailable, from, to, err)
	}
	return g.decodeLogs(ctx, logs)
}

func (g *gateway) NamesByOwnerLogs(ctx context.Context, owner common.Address, from, to uint64) ([]domain.RegistrationEvent, bool, error) {
	query := g.lifecycleQuery(from, to)
	// topic 1 is the indexed nameHash on every lifecycle event; the owner
	// sits at topic 2 (the sender on NameTransferred, which the caller
	// filters out when it re-checks current ownership against the
	// contract). Leave position 1 unconstrained.
	query.Topics = append(query.Topics, nil, []common.Hash{ownerTopic(owner)})

	logs, err := g.scanLogs(ctx, query, true)
	partial := err != nil
	if partial {
		logger.WarnCtx(ctx, "owner log scan incomplete",
			zap.String("owner", owner.Hex()),
			zap.Error(err))
	}

	events, _, decodeErr := g.decodeLogs(ctx, logs)
	if decodeErr != nil {
		return nil, partial, decodeErr
	}
	return events, partial, nil
}

func (g *gateway) lifecycleQuery(from, to uint64) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{g.contract},
		Topics: [][]common.Hash{{
			nameRegisteredSignature,
			nameRenewedSignature,
			nameTransferredSignature,
		}},
	}
}

// scanLogs walks the query range in chunks. On a "too many results"
// pushback the chunk is halved and the same range retried. With
// bestEffort set, a chunk that keeps failing is skipped and the collected
// logs are returned alongside the error; otherwise the scan aborts.
func (g *gateway) scanLogs(ctx context.Context, query ethereum.FilterQuery, bestEffort bool) ([]types.Log, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	var all []types.Log
	var firstErr error
	step := logScanChunk
	from := query.FromBlock.Uint64()
	to := query.ToBlock.Uint64()

	for from <= to {
		end := from + step - 1
		if end > to {
			end = to
		}

		chunkQuery := query
		chunkQuery.FromBlock = new(big.Int).SetUint64(from)
		chunkQuery.ToBlock = new(big.Int).SetUint64(end)

		logs, err := g.client.FilterLogs(timeoutCtx, chunkQuery)
		if err == nil {
			all = append(all, logs...)
			from = end + 1
			continue
		}

		if isTooManyResultsError(err) && step > 1 {
			step = step / 2
			logger.WarnCtx(ctx, "too many results, reducing step size",
				zap.Uint64("newStepSize", step),
				zap.Uint64("fromBlock", from),
				zap.Uint64("toBlock", end))
			continue
		}

		if !bestEffort {
			return nil, err
		}
		if firstErr == nil {
			firstErr = err
		}
		from = end + 1
	}

	return all, firstErr
}

func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "query returned more than 10000 results") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "exceeded maximum")
}

// decodeLogs converts raw logs into lifecycle events. A log that fails to
// decode is counted and skipped rather than poisoning the whole batch.
func (g *gateway) decodeLogs(ctx context.Context, logs []types.Log) ([]domain.RegistrationEvent, int, error) {
	events := make([]domain.RegistrationEvent, 0, len(logs))
	skipped := 0

	for _, lg := range logs {
		ev, err := g.decodeLog(lg)
		if err != nil {
			skipped++
			logger.WarnCtx(ctx, "skipping undecodable log",
				zap.String("txHash", lg.TxHash.Hex()),
				zap.Uint64("blockNumber", lg.BlockNumber),
				zap.Error(err))
			continue
		}
		events = append(events, ev)
	}

	return events, skipped, nil
}

type rawRegisteredEvent struct {
	Name                 string
	ExpiresAt            *big.Int
	OriginChainNamespace string
	OriginChainId        string
	IsPremium            bool
}

type rawRenewedEvent struct {
	Name         string
	NewExpiresAt *big.Int
	RenewedBy    common.Address
}

type rawTransferredEvent struct {
	Name string
}

func (g *gateway) decodeLog(lg types.Log) (domain.RegistrationEvent, error) {
	if len(lg.Topics) < 2 {
		return domain.RegistrationEvent{}, fmt.Errorf("%w: missing topics", domain.ErrDecode)
	}

	ev := domain.RegistrationEvent{
		NameHash:    lg.Topics[1],
		TxHash:      lg.TxHash.Hex(),
		BlockNumber: lg.BlockNumber,
	}

	switch lg.Topics[0] {
	case nameRegisteredSignature:
		if len(lg.Topics) < 3 {
			return domain.RegistrationEvent{}, fmt.Errorf("%w: NameRegistered missing owner topic", domain.ErrDecode)
		}
		var raw rawRegisteredEvent
		if err := g.abi.UnpackIntoInterface(&raw, "NameRegistered", lg.Data); err != nil {
			return domain.RegistrationEvent{}, fmt.Errorf("%w: unpack NameRegistered: %s", domain.ErrDecode, err)
		}
		ev.Kind = domain.EventKindRegistered
		ev.Name = domain.NormalizeName(raw.Name)
		ev.Owner = domain.NormalizeAddress(common.BytesToAddress(lg.Topics[2].Bytes()).Hex())
		ev.ExpiresAt = time.Unix(raw.ExpiresAt.Int64(), 0).UTC()
		ev.IsPremium = raw.IsPremium
		ev.Origin = domain.OriginChain{
			Namespace: raw.OriginChainNamespace,
			ChainID:   raw.OriginChainId,
		}

	case nameRenewedSignature:
		var raw rawRenewedEvent
		if err := g.abi.UnpackIntoInterface(&raw, "NameRenewed", lg.Data); err != nil {
			return domain.RegistrationEvent{}, fmt.Errorf("%w: unpack NameRenewed: %s", domain.ErrDecode, err)
		}
		ev.Kind = domain.EventKindRenewed
		ev.Name = domain.NormalizeName(raw.Name)
		ev.Owner = domain.NormalizeAddress(raw.RenewedBy.Hex())
		ev.ExpiresAt = time.Unix(raw.NewExpiresAt.Int64(), 0).UTC()

	case nameTransferredSignature:
		if len(lg.Topics) < 4 {
			return domain.RegistrationEvent{}, fmt.Errorf("%w: NameTransferred missing address topics", domain.ErrDecode)
		}
		var raw rawTransferredEvent
		if err := g.abi.UnpackIntoInterface(&raw, "NameTransferred", lg.Data); err != nil {
			return domain.RegistrationEvent{}, fmt.Errorf("%w: unpack NameTransferred: %s", domain.ErrDecode, err)
		}
		ev.Kind = domain.EventKindTransferred
		ev.Name = domain.NormalizeName(raw.Name)
		ev.PrevOwner = domain.NormalizeAddress(common.BytesToAddress(lg.Topics[2].Bytes()).Hex())
		ev.Owner = domain.NormalizeAddress(common.BytesToAddress(lg.Topics[3].Bytes()).Hex())

	default:
		return domain.RegistrationEvent{}, fmt.Errorf("%w: unknown event signature %s", domain.ErrDecode, lg.Topics[0].Hex())
	}

	if ev.Name == "" {
		return domain.RegistrationEvent{}, fmt.Errorf("%w: empty name in event", domain.ErrDecode)
	}
	return ev, nil
}
