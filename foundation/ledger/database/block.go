package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/neuradesci/ledger/foundation/ledger/crypto"
)

// ZeroHash is the sentinel previous-hash carried by the genesis block.
const ZeroHash = "0"

// =============================================================================

// Block represents an ordered batch of transactions bound to its
// predecessor by hash linkage and sealed by proof of work. Once a block
// is appended to the chain it is never mutated.
type Block struct {
	Index        uint64 `json:"index"`
	TimeStamp    uint64 `json:"timestamp"`
	Transactions []Tx   `json:"transactions"`
	PrevHash     string `json:"previous_hash"`
	Hash         string `json:"hash"`
	Nonce        uint64 `json:"nonce"`
	Difficulty   uint   `json:"difficulty"`
}

// NewBlock constructs a candidate block. The hash is computed immediately
// from the initial state with the nonce at zero.
func NewBlock(provider crypto.Provider, index uint64, prevHash string, transactions []Tx, difficulty uint) Block {
	b := Block{
		Index:        index,
		TimeStamp:    uint64(time.Now().UTC().Unix()),
		Transactions: transactions,
		PrevHash:     prevHash,
		Difficulty:   difficulty,
	}

	b.Hash = b.ComputeHash(provider)
	return b
}

// ComputeHash derives the block hash from the index, previous hash,
// timestamp, ordered transaction ids, and nonce. It is a pure function
// of those fields.
func (b Block) ComputeHash(provider crypto.Provider) string {
	var txData strings.Builder
	for _, tx := range b.Transactions {
		txData.WriteString(tx.ID)
	}

	return provider.Digest(fmt.Sprintf("%d%s%d%s%d", b.Index, b.PrevHash, b.TimeStamp, txData.String(), b.Nonce))
}

// Mine performs the proof-of-work search: the nonce is incremented and the
// hash recomputed until the hash carries the required number of leading
// zero characters. The expected cost grows as 16^difficulty, so the search
// checks the context on every increment and stops with ctx.Err() when
// cancelled. Pointer semantics are being used since a nonce is being
// discovered.
func (b *Block) Mine(ctx context.Context, provider crypto.Provider, ev func(v string, args ...any)) error {
	ev("database: Mine: POW: started: blk[%d] difficulty[%d]", b.Index, b.Difficulty)
	defer ev("database: Mine: POW: completed: blk[%d]", b.Index)

	var attempts uint64
	for !isHashSolved(b.Difficulty, b.Hash) {
		if ctx.Err() != nil {
			ev("database: Mine: POW: CANCELLED: blk[%d]", b.Index)
			return ctx.Err()
		}

		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: POW: attempts[%d]", attempts)
		}

		b.Nonce++
		b.Hash = b.ComputeHash(provider)
	}

	ev("database: Mine: POW: SOLVED: blk[%d] nonce[%d] hash[%s]", b.Index, b.Nonce, b.Hash)
	return nil
}

// IsValid recomputes the hash from the current fields and reports whether
// it matches the stored hash and satisfies the leading-zero rule. The one
// check detects both tampering and insufficient work.
func (b Block) IsValid(provider crypto.Provider) bool {
	return b.ComputeHash(provider) == b.Hash && isHashSolved(b.Difficulty, b.Hash)
}

// ValidateBlock checks the block can follow the specified previous block:
// the index continues the chain, the hash linkage matches, and the block
// is self consistent under proof of work.
func (b Block) ValidateBlock(previousBlock Block, provider crypto.Provider, ev func(v string, args ...any)) error {
	ev("database: ValidateBlock: blk[%d]: check: block index is the next index", b.Index)

	if b.Index != previousBlock.Index+1 {
		return fmt.Errorf("block is not the next index, got %d, exp %d", b.Index, previousBlock.Index+1)
	}

	ev("database: ValidateBlock: blk[%d]: check: previous hash matches previous block", b.Index)

	if b.PrevHash != previousBlock.Hash {
		return fmt.Errorf("previous hash doesn't match previous block, got %s, exp %s", b.PrevHash, previousBlock.Hash)
	}

	ev("database: ValidateBlock: blk[%d]: check: block hash has been solved", b.Index)

	if !b.IsValid(provider) {
		return fmt.Errorf("block hash %s is not valid for difficulty %d", b.Hash, b.Difficulty)
	}

	return nil
}

// isHashSolved checks the hash complies with the POW rules. We need to
// match a difficulty number of leading '0' characters.
func isHashSolved(difficulty uint, hash string) bool {
	const match = "00000000000000000000000000000000"

	if difficulty > uint(len(match)) || uint(len(hash)) < difficulty {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}

// =============================================================================

// EncodeBlock marshals a block to its interchange form.
func EncodeBlock(b Block) ([]byte, error) {
	return json.Marshal(b)
}

// DecodeBlock unmarshals a block from its interchange form.
func DecodeBlock(data []byte) (Block, error) {
	var b Block
	if err := json.Unmarshal(data, &b); err != nil {
		return Block{}, fmt.Errorf("decoding block: %w", err)
	}

	return b, nil
}
