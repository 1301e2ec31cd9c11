package domain

import "errors"

var (
	// ErrChainUnavailable is returned when the ledger RPC cannot be reached
	// or a read fails at the transport level. Retryable.
	ErrChainUnavailable = errors.New("chain unavailable")

	// ErrDecode is returned when a ledger response or event log cannot be
	// decoded. Not retryable without an upstream fix.
	ErrDecode = errors.New("malformed ledger response")

	// ErrWalletRejected is returned when the user declines to sign a
	// transaction. User-recoverable, not a bug.
	ErrWalletRejected = errors.New("wallet rejected transaction")

	// ErrInsufficientFunds is returned when a pre-submission balance check
	// shows funds below the computed fee.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrConfirmationTimeout is returned when a submitted transaction does
	// not confirm within the bound. The outcome is unknown: the caller must
	// re-query ledger state, never assume success or failure.
	ErrConfirmationTimeout = errors.New("confirmation timeout, outcome unknown")

	// ErrValidation is returned for bad input such as missing webhook
	// fields. Rejected immediately, no retry.
	ErrValidation = errors.New("validation failed")

	// ErrNameNotFound is returned when a name has no ledger record
	ErrNameNotFound = errors.New("name not found")

	// ErrNotOwner is returned when a mutating operation is attempted by an
	// account that does not control the name.
	ErrNotOwner = errors.New("account does not own name")
)
