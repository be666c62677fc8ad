// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/neuradesci/ledger/foundation/ledger/crypto"
	"github.com/neuradesci/ledger/foundation/ledger/database"
	"github.com/neuradesci/ledger/foundation/ledger/genesis"
	"github.com/neuradesci/ledger/foundation/ledger/mempool"
)

// systemAccount is the sender recorded on synthesized reward transactions.
const systemAccount = "System"

// =============================================================================

// EventHandler defines a function that is called when events occur in the
// processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis      genesis.Genesis
	MinerAccount string
	Provider     crypto.Provider
	EvHandler    EventHandler
}

// State manages the ledger: the chain of blocks and the pending pool.
// Chain and pool mutations are serialized through a single mutex; the
// design assumes exactly one mining operation in flight at a time.
type State struct {
	minerAccount string
	evHandler    EventHandler

	mu      sync.RWMutex
	chain   []database.Block
	mempool *mempool.Mempool

	genesis  genesis.Genesis
	provider crypto.Provider

	Worker Worker
}

// New constructs a new ledger with its genesis block in place. The chain
// is never observably empty to a caller.
func New(cfg Config) *State {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	provider := cfg.Provider
	if provider == nil {
		provider = crypto.NewReference()
	}

	s := State{
		minerAccount: cfg.MinerAccount,
		evHandler:    ev,
		mempool:      mempool.New(),
		genesis:      cfg.Genesis,
		provider:     provider,
	}

	// The genesis block anchors the chain: index zero, the sentinel
	// previous hash, and no transactions.
	genesisBlock := database.NewBlock(provider, 0, database.ZeroHash, nil, cfg.Genesis.Difficulty)
	s.chain = append(s.chain, genesisBlock)

	ev("state: New: chain started: genesis[%s]", genesisBlock.Hash)

	return &s
}

// Shutdown cleanly brings the ledger down, stopping any in-flight mining.
func (s *State) Shutdown() {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	if s.Worker != nil {
		s.Worker.Shutdown()
	}
}

// Provider returns the crypto provider the ledger was constructed with.
func (s *State) Provider() crypto.Provider {
	return s.provider
}

// MinerAccount returns the account credited by this node's mining.
func (s *State) MinerAccount() string {
	return s.minerAccount
}
