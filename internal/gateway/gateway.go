// Package gateway is the single seam between this service and the Push
// chain. Every contract read, call-data builder, and log filter lives
// here; nothing else in the codebase touches RPC.
package gateway

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/logger"
	"github.com/push-name-service/pns-indexer/internal/naming"
)

const (
	defaultReadTimeout = 15 * time.Second
	maxReadRetries     = 3
)

// Gateway exposes the PushNameService contract surface
//
//go:generate mockgen -source=gateway.go -destination=../mocks/gateway.go -package=mocks -mock_names=Gateway=MockGateway
type Gateway interface {
	// IsNameAvailable reports whether the contract considers name open for
	// registration. The contract treats expired-past-grace names as open.
	IsNameAvailable(ctx context.Context, name string) (bool, error)

	// GetNameRecord returns the full registration record for a name, or
	// domain.ErrNameNotFound when the contract holds no record.
	GetNameRecord(ctx context.Context, name string) (*domain.NameRecord, error)

	// GetMetadata returns the profile metadata attached to a name. Keys
	// with empty values are omitted.
	GetMetadata(ctx context.Context, name string) (domain.Metadata, error)

	// RegistrationFee asks the contract to price a registration by hash
	RegistrationFee(ctx context.Context, nameHash common.Hash) (*big.Int, error)

	// GetNameHash returns the contract's own fingerprint for a name,
	// used to cross-check the local keccak computation.
	GetNameHash(ctx context.Context, name string) (common.Hash, error)

	// BaseFeeAndMultiplier reads the current pricing parameters
	BaseFeeAndMultiplier(ctx context.Context) (*big.Int, *big.Int, error)

	// GracePeriod reads the post-expiry window during which only the
	// previous owner may re-register.
	GracePeriod(ctx context.Context) (time.Duration, error)

	// ReverseLookup returns the primary name an address has claimed, or
	// domain.ErrNameNotFound when the address has no reverse record.
	ReverseLookup(ctx context.Context, addr common.Address) (string, error)

	// HeadBlock returns the latest block number
	HeadBlock(ctx context.Context) (uint64, error)

	// FilterRegistrationEvents scans [from, to] for name lifecycle events.
	// Logs that fail to decode are skipped, not fatal; the second return
	// value counts them so callers can surface partial decodes.
	FilterRegistrationEvents(ctx context.Context, from, to uint64) ([]domain.RegistrationEvent, int, error)

	// NamesByOwnerLogs scans [from, to] for lifecycle events whose indexed
	// owner matches the given address. The bool reports a partial scan:
	// some chunks failed and were skipped.
	NamesByOwnerLogs(ctx context.Context, owner common.Address, from, to uint64) ([]domain.RegistrationEvent, bool, error)

	// Call-data builders for the orchestrator. Pure encoding, no RPC.
	BuildRegisterCall(name string) ([]byte, error)
	BuildRenewCall(name string) ([]byte, error)
	BuildTransferCall(name string, newOwner common.Address) ([]byte, error)
	BuildSetMetadataCall(name string, md domain.Metadata) ([]byte, error)
	BuildSetPrimaryNameCall(name string) ([]byte, error)

	// ContractAddress returns the bound PushNameService address
	ContractAddress() common.Address

	Close()
}

type gateway struct {
	client      adapter.EthClient
	contract    common.Address
	abi         abi.ABI
	readTimeout time.Duration
}

// New binds a gateway to a deployed PushNameService contract
func New(client adapter.EthClient, contract common.Address, readTimeout time.Duration) (Gateway, error) {
	parsed, err := parsePNSABI()
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}
	return &gateway{
		client:      client,
		contract:    contract,
		abi:         parsed,
		readTimeout: readTimeout,
	}, nil
}

func (g *gateway) ContractAddress() common.Address {
	return g.contract
}

func (g *gateway) Close() {
	g.client.Close()
}

// call packs, executes, and returns the raw bytes of a read-only contract
// call. Transport failures are retried with exponential backoff and end up
// wrapped in domain.ErrChainUnavailable.
func (g *gateway) call(ctx context.Context, method string, args ...interface{}) ([]byte, error) {
	data, err := g.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %s", domain.ErrDecode, method, err)
	}

	msg := ethereum.CallMsg{To: &g.contract, Data: data}

	var out []byte
	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, g.readTimeout)
		defer cancel()

		out, err = g.client.CallContract(callCtx, msg, nil)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxReadRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("method", method))
		return nil, fmt.Errorf("%w: call %s: %s", domain.ErrChainUnavailable, method, err)
	}
	return out, nil
}

func (g *gateway) IsNameAvailable(ctx context.Context, name string) (bool, error) {
	name = domain.NormalizeName(name)
	raw, err := g.call(ctx, "isNameAvailable", name)
	if err != nil {
		return false, err
	}

	var available bool
	if err := g.abi.UnpackIntoInterface(&available, "isNameAvailable", raw); err != nil {
		return false, fmt.Errorf("%w: unpack isNameAvailable: %s", domain.ErrDecode, err)
	}
	return available, nil
}

// rawNameRecord mirrors the contract's NameRecord tuple
type rawNameRecord struct {
	Owner         common.Address
	ExpiresAt     *big.Int
	RegisteredAt  *big.Int
	IsPremium     bool
	OriginAccount struct {
		ChainNamespace string
		ChainId        string
		Owner          []byte
	}
}

func (g *gateway) GetNameRecord(ctx context.Context, name string) (*domain.NameRecord, error) {
	name = domain.NormalizeName(name)
	raw, err := g.call(ctx, "getNameRecord", name)
	if err != nil {
		return nil, err
	}

	var rec rawNameRecord
	if err := g.abi.UnpackIntoInterface(&rec, "getNameRecord", raw); err != nil {
		return nil, fmt.Errorf("%w: unpack getNameRecord: %s", domain.ErrDecode, err)
	}

	// the contract returns a zeroed record for unknown names
	if rec.Owner == (common.Address{}) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNameNotFound, name)
	}

	return &domain.NameRecord{
		Name:         name,
		NameHash:     naming.Hash(name),
		Owner:        domain.NormalizeAddress(rec.Owner.Hex()),
		RegisteredAt: time.Unix(rec.RegisteredAt.Int64(), 0).UTC(),
		ExpiresAt:    time.Unix(rec.ExpiresAt.Int64(), 0).UTC(),
		IsPremium:    rec.IsPremium,
		Origin: domain.OriginChain{
			Namespace: rec.OriginAccount.ChainNamespace,
			ChainID:   rec.OriginAccount.ChainId,
		},
	}, nil
}

type rawMetadata struct {
	Avatar      string
	Email       string
	Url         string
	Description string
	Twitter     string
	Github      string
	Discord     string
	Telegram    string
}

func (g *gateway) GetMetadata(ctx context.Context, name string) (domain.Metadata, error) {
	name = domain.NormalizeName(name)
	raw, err := g.call(ctx, "getMetadata", name)
	if err != nil {
		return nil, err
	}

	var md rawMetadata
	if err := g.abi.UnpackIntoInterface(&md, "getMetadata", raw); err != nil {
		return nil, fmt.Errorf("%w: unpack getMetadata: %s", domain.ErrDecode, err)
	}

	out := domain.Metadata{}
	for k, v := range map[string]string{
		"avatar":      md.Avatar,
		"email":       md.Email,
		"url":         md.Url,
		"description": md.Description,
		"twitter":     md.Twitter,
		"github":      md.Github,
		"discord":     md.Discord,
		"telegram":    md.Telegram,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out, nil
}

func (g *gateway) RegistrationFee(ctx context.Context, nameHash common.Hash) (*big.Int, error) {
	raw, err := g.call(ctx, "calculateRegistrationFee", nameHash)
	if err != nil {
		return nil, err
	}

	fee := new(big.Int)
	if err := g.abi.UnpackIntoInterface(&fee, "calculateRegistrationFee", raw); err != nil {
		return nil, fmt.Errorf("%w: unpack calculateRegistrationFee: %s", domain.ErrDecode, err)
	}
	return fee, nil
}

func (g *gateway) GetNameHash(ctx context.Context, name string) (common.Hash, error) {
	raw, err := g.call(ctx, "getNameHash", domain.NormalizeName(name))
	if err != nil {
		return common.Hash{}, err
	}

	var hash [32]byte
	if err := g.abi.UnpackIntoInterface(&hash, "getNameHash", raw); err != nil {
		return common.Hash{}, fmt.Errorf("%w: unpack getNameHash: %s", domain.ErrDecode, err)
	}
	return common.Hash(hash), nil
}

func (g *gateway) BaseFeeAndMultiplier(ctx context.Context) (*big.Int, *big.Int, error) {
	rawBase, err := g.call(ctx, "baseRegistrationFee")
	if err != nil {
		return nil, nil, err
	}
	base := new(big.Int)
	if err := g.abi.UnpackIntoInterface(&base, "baseRegistrationFee", rawBase); err != nil {
		return nil, nil, fmt.Errorf("%w: unpack baseRegistrationFee: %s", domain.ErrDecode, err)
	}

	rawMul, err := g.call(ctx, "premiumMultiplier")
	if err != nil {
		return nil, nil, err
	}
	multiplier := new(big.Int)
	if err := g.abi.UnpackIntoInterface(&multiplier, "premiumMultiplier", rawMul); err != nil {
		return nil, nil, fmt.Errorf("%w: unpack premiumMultiplier: %s", domain.ErrDecode, err)
	}

	return base, multiplier, nil
}

func (g *gateway) GracePeriod(ctx context.Context) (time.Duration, error) {
	raw, err := g.call(ctx, "GRACE_PERIOD")
	if err != nil {
		return 0, err
	}

	seconds := new(big.Int)
	if err := g.abi.UnpackIntoInterface(&seconds, "GRACE_PERIOD", raw); err != nil {
		return 0, fmt.Errorf("%w: unpack GRACE_PERIOD: %s", domain.ErrDecode, err)
	}
	return time.Duration(seconds.Int64()) * time.Second, nil
}

func (g *gateway) ReverseLookup(ctx context.Context, addr common.Address) (string, error) {
	raw, err := g.call(ctx, "reverseLookup", addr)
	if err != nil {
		return "", err
	}

	var name string
	if err := g.abi.UnpackIntoInterface(&name, "reverseLookup", raw); err != nil {
		return "", fmt.Errorf("%w: unpack reverseLookup: %s", domain.ErrDecode, err)
	}

	// the contract returns an empty string for addresses without a
	// reverse record
	name = domain.NormalizeName(name)
	if name == "" {
		return "", fmt.Errorf("%w: no primary name for %s", domain.ErrNameNotFound, addr.Hex())
	}
	return name, nil
}

func (g *gateway) HeadBlock(ctx context.Context) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.readTimeout)
	defer cancel()

	header, err := g.client.HeaderByNumber(callCtx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: head block: %s", domain.ErrChainUnavailable, err)
	}
	return header.Number.Uint64(), nil
}

func (g *gateway) BuildRegisterCall(name string) ([]byte, error) {
	data, err := g.abi.Pack("register", domain.NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("%w: pack register: %s", domain.ErrDecode, err)
	}
	return data, nil
}

func (g *gateway) BuildRenewCall(name string) ([]byte, error) {
	data, err := g.abi.Pack("renew", domain.NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("%w: pack renew: %s", domain.ErrDecode, err)
	}
	return data, nil
}

func (g *gateway) BuildTransferCall(name string, newOwner common.Address) ([]byte, error) {
	data, err := g.abi.Pack("transfer", domain.NormalizeName(name), newOwner)
	if err != nil {
		return nil, fmt.Errorf("%w: pack transfer: %s", domain.ErrDecode, err)
	}
	return data, nil
}

func (g *gateway) BuildSetMetadataCall(name string, md domain.Metadata) ([]byte, error) {
	data, err := g.abi.Pack("setMetadata",
		domain.NormalizeName(name),
		md["avatar"], md["email"], md["url"], md["description"],
		md["twitter"], md["github"], md["discord"], md["telegram"])
	if err != nil {
		return nil, fmt.Errorf("%w: pack setMetadata: %s", domain.ErrDecode, err)
	}
	return data, nil
}

func (g *gateway) BuildSetPrimaryNameCall(name string) ([]byte, error) {
	data, err := g.abi.Pack("setPrimaryName", domain.NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("%w: pack setPrimaryName: %s", domain.ErrDecode, err)
	}
	return data, nil
}
