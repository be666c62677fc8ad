package state

import (
	"encoding/json"
	"fmt"

	"github.com/neuradesci/ledger/foundation/ledger/database"
)

// Document is the interchange form of the whole ledger: the chain, the
// pending pool, and the settings. Encoding then decoding a document
// reproduces it exactly, including unset optional fields on the
// transactions.
type Document struct {
	Chain               []database.Block `json:"chain"`
	PendingTransactions []database.Tx    `json:"pending_transactions"`
	Difficulty          uint             `json:"difficulty"`
	MiningReward        uint64           `json:"mining_reward"`
}

// Document snapshots the ledger into its interchange form.
func (s *State) Document() Document {
	return Document{
		Chain:               s.RetrieveChain(),
		PendingTransactions: s.RetrieveMempool(),
		Difficulty:          s.genesis.Difficulty,
		MiningReward:        s.genesis.MiningReward,
	}
}

// Encode marshals the ledger to its interchange form.
func (s *State) Encode() ([]byte, error) {
	return json.Marshal(s.Document())
}

// DecodeDocument unmarshals a ledger document.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decoding ledger document: %w", err)
	}

	return doc, nil
}

// FromDocument constructs a ledger from a previously encoded document
// instead of starting a fresh chain. The document's chain is installed
// as is; callers wanting assurance should follow with Validate.
func FromDocument(cfg Config, doc Document) (*State, error) {
	if len(doc.Chain) == 0 {
		return nil, ErrChainEmpty
	}

	// The document's settings win over whatever the config carries so the
	// restored chain keeps the difficulty its blocks were mined at.
	cfg.Genesis.Difficulty = doc.Difficulty
	cfg.Genesis.MiningReward = doc.MiningReward

	s := New(cfg)

	s.mu.Lock()
	s.chain = make([]database.Block, len(doc.Chain))
	copy(s.chain, doc.Chain)
	s.mu.Unlock()

	s.mempool.Truncate()
	for _, tx := range doc.PendingTransactions {
		s.mempool.Append(tx)
	}

	return s, nil
}
