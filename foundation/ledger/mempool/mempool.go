// Package mempool maintains the pool of signed transactions waiting to be
// included in a block. Insertion order is preserved because committed
// blocks carry their transactions in submission order.
package mempool

import (
	"sync"

	"github.com/neuradesci/ledger/foundation/ledger/database"
)

// Mempool represents the ordered pending pool.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs an empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds a transaction to the end of the pool.
func (mp *Mempool) Append(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)
	return len(mp.pool)
}

// Copy returns a snapshot of the pool in insertion order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)
	return cpy
}

// Delete removes the specified transaction from the pool. Transactions
// that arrived after a mining copy was taken are left in place.
func (mp *Mempool) Delete(tx database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i, ptx := range mp.pool {
		if ptx.ID == tx.ID {
			mp.pool = append(mp.pool[:i], mp.pool[i+1:]...)
			return
		}
	}
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Find performs a linear scan of the pool in insertion order for the
// transaction with the specified id.
func (mp *Mempool) Find(id string) (database.Tx, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	for _, tx := range mp.pool {
		if tx.ID == id {
			return tx, true
		}
	}

	return database.Tx{}, false
}
