// Package wallet abstracts transaction signing and submission. The service
// ships a key-backed implementation; the interface keeps the orchestrator
// testable and leaves room for remote signers.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ConnectionStatus describes whether the wallet can sign right now
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusLocked       ConnectionStatus = "locked"
)

// TxRequest is an unsigned transaction the wallet should sign and send
type TxRequest struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// TxHandle tracks a submitted transaction through confirmation
//
//go:generate mockgen -source=wallet.go -destination=../mocks/wallet.go -package=mocks -mock_names=Wallet=MockWallet,TxHandle=MockTxHandle
type TxHandle interface {
	// Hash returns the transaction hash assigned at signing time
	Hash() common.Hash

	// Wait blocks until the transaction is mined or the wallet's
	// confirmation bound elapses. On timeout it returns
	// domain.ErrConfirmationTimeout and the outcome is unknown.
	Wait(ctx context.Context) (*types.Receipt, error)
}

// Wallet signs and broadcasts transactions for a single account
type Wallet interface {
	// Status reports whether the wallet is able to sign
	Status() ConnectionStatus

	// Account returns the signing address
	Account() common.Address

	// Balance returns the account's current balance in wei
	Balance(ctx context.Context) (*big.Int, error)

	// Submit signs and broadcasts the request. It fails fast with
	// domain.ErrInsufficientFunds when the balance cannot cover
	// value plus estimated gas.
	Submit(ctx context.Context, req TxRequest) (TxHandle, error)
}
