package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/logger"
)

const (
	defaultConfirmTimeout = 2 * time.Minute
	receiptPollInterval   = 3 * time.Second
)

// keyWallet signs with an in-process private key
type keyWallet struct {
	client         adapter.EthClient
	clock          adapter.Clock
	key            *ecdsa.PrivateKey
	account        common.Address
	chainID        *big.Int
	confirmTimeout time.Duration
}

// NewKeyWallet builds a wallet from a hex-encoded private key
func NewKeyWallet(client adapter.EthClient, clock adapter.Clock, privateKeyHex string, chainID *big.Int, confirmTimeout time.Duration) (Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	if confirmTimeout <= 0 {
		confirmTimeout = defaultConfirmTimeout
	}
	return &keyWallet{
		client:         client,
		clock:          clock,
		key:            key,
		account:        crypto.PubkeyToAddress(key.PublicKey),
		chainID:        chainID,
		confirmTimeout: confirmTimeout,
	}, nil
}

func (w *keyWallet) Status() ConnectionStatus {
	if w.key == nil {
		return StatusLocked
	}
	return StatusConnected
}

func (w *keyWallet) Account() common.Address {
	return w.account
}

func (w *keyWallet) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := w.client.BalanceAt(ctx, w.account, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: balance: %s", domain.ErrChainUnavailable, err)
	}
	return balance, nil
}

func (w *keyWallet) Submit(ctx context.Context, req TxRequest) (TxHandle, error) {
	if w.key == nil {
		return nil, domain.ErrWalletRejected
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: gas price: %s", domain.ErrChainUnavailable, err)
	}

	gasLimit, err := w.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  w.account,
		To:    &req.To,
		Value: value,
		Data:  req.Data,
	})
	if err != nil {
		if isInsufficientFundsError(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientFunds, err)
		}
		return nil, fmt.Errorf("%w: estimate gas: %s", domain.ErrChainUnavailable, err)
	}

	// fail before signing when balance cannot cover value + gas
	balance, err := w.Balance(ctx)
	if err != nil {
		return nil, err
	}
	cost := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	cost.Add(cost, value)
	if balance.Cmp(cost) < 0 {
		return nil, fmt.Errorf("%w: need %s wei, have %s wei", domain.ErrInsufficientFunds, cost, balance)
	}

	nonce, err := w.client.PendingNonceAt(ctx, w.account)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %s", domain.ErrChainUnavailable, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &req.To,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     req.Data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(w.chainID), w.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrWalletRejected, err)
	}

	if err := w.client.SendTransaction(ctx, signed); err != nil {
		if isInsufficientFundsError(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientFunds, err)
		}
		return nil, fmt.Errorf("%w: send: %s", domain.ErrChainUnavailable, err)
	}

	logger.InfoCtx(ctx, "transaction submitted",
		zap.String("txHash", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce))

	return &txHandle{
		client:         w.client,
		clock:          w.clock,
		hash:           signed.Hash(),
		confirmTimeout: w.confirmTimeout,
	}, nil
}

type txHandle struct {
	client         adapter.EthClient
	clock          adapter.Clock
	hash           common.Hash
	confirmTimeout time.Duration
}

func (h *txHandle) Hash() common.Hash {
	return h.hash
}

func (h *txHandle) Wait(ctx context.Context) (*types.Receipt, error) {
	deadline := h.clock.Now().Add(h.confirmTimeout)

	for {
		receipt, err := h.client.TransactionReceipt(ctx, h.hash)
		if err == nil && receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, fmt.Errorf("transaction %s reverted", h.hash.Hex())
			}
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("%w: receipt: %s", domain.ErrChainUnavailable, err)
		}

		if h.clock.Now().After(deadline) {
			return nil, fmt.Errorf("%w: tx %s after %s", domain.ErrConfirmationTimeout, h.hash.Hex(), h.confirmTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-h.clock.After(receiptPollInterval):
		}
	}
}

func isInsufficientFundsError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "insufficient funds")
}
