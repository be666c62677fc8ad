package state

import (
	"errors"
	"fmt"
)

// Set of error variables for ledger operations. Every operation returns
// its failure explicitly; no partial mutation occurs on any failure path.
var (
	// ErrInvalidTransaction is returned when an unsigned transaction is
	// submitted to the pending pool.
	ErrInvalidTransaction = errors.New("transaction is missing a signature")

	// ErrEmptyPool is returned when mining is attempted with nothing
	// to mine.
	ErrEmptyPool = errors.New("no pending transactions to mine")

	// ErrInvalidBlock is returned when a mined candidate fails validation
	// against the chain tip.
	ErrInvalidBlock = errors.New("invalid block")

	// ErrChainEmpty is returned when the chain has no blocks. A chain
	// built through New always carries its genesis block, so this shows
	// up only on the document restore path.
	ErrChainEmpty = errors.New("chain is empty")

	// ErrNotFound is returned when a transaction id cannot be located in
	// the pending pool or any committed block.
	ErrNotFound = errors.New("transaction not found")
)

// =============================================================================

// InvalidChainError reports the first block that fails chain-wide
// validation and the reason it failed.
type InvalidChainError struct {
	Index  uint64
	Reason error
}

// Error implements the error interface.
func (e *InvalidChainError) Error() string {
	return fmt.Sprintf("chain invalid at block %d: %s", e.Index, e.Reason)
}

// Unwrap exposes the underlying validation failure.
func (e *InvalidChainError) Unwrap() error {
	return e.Reason
}
