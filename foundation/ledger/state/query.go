package state

import (
	"github.com/neuradesci/ledger/foundation/ledger/database"
	"github.com/neuradesci/ledger/foundation/ledger/genesis"
)

// LatestBlock returns the block at the tip of the chain.
func (s *State) LatestBlock() (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chain) == 0 {
		return database.Block{}, ErrChainEmpty
	}

	return s.chain[len(s.chain)-1], nil
}

// ChainLength returns the current number of blocks in the chain.
func (s *State) ChainLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chain)
}

// RetrieveChain returns a copy of the chain in order.
func (s *State) RetrieveChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := make([]database.Block, len(s.chain))
	copy(chain, s.chain)
	return chain
}

// RetrieveBlock returns the block at the specified index.
func (s *State) RetrieveBlock(index uint64) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index >= uint64(len(s.chain)) {
		return database.Block{}, ErrNotFound
	}

	return s.chain[index], nil
}

// RetrieveMempool returns a copy of the pending pool in insertion order.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// QueryMempoolLength returns the current length of the pending pool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// RetrieveGenesis returns the genesis settings for this chain.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// FindTransaction performs a linear scan for the transaction with the
// specified id: first the pending pool in insertion order, then the
// committed blocks in chain order, each in block order. The first match
// wins.
func (s *State) FindTransaction(id string) (database.Tx, error) {
	if tx, found := s.mempool.Find(id); found {
		return tx, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, block := range s.chain {
		for _, tx := range block.Transactions {
			if tx.ID == id {
				return tx, nil
			}
		}
	}

	return database.Tx{}, ErrNotFound
}

// QueryBlocksByAccount returns the blocks containing a transaction the
// specified account sent or received. An empty account returns every
// block.
func (s *State) QueryBlocksByAccount(account string) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []database.Block
	for _, block := range s.chain {
		if account == "" {
			out = append(out, block)
			continue
		}

		for _, tx := range block.Transactions {
			if tx.Sender == account || (tx.Recipient != nil && *tx.Recipient == account) {
				out = append(out, block)
				break
			}
		}
	}

	return out
}
