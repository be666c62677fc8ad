package state

import (
	"github.com/neuradesci/ledger/foundation/ledger/database"
)

// SubmitTransaction accepts a signed transaction into the pending pool
// and signals the worker that there is something to mine. Only the
// presence of a signature is checked here.
func (s *State) SubmitTransaction(tx database.Tx) error {
	if !tx.IsSigned() {
		return ErrInvalidTransaction
	}

	n := s.mempool.Append(tx)
	s.evHandler("state: SubmitTransaction: tx[%s] accepted: pool[%d]", tx, n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}
