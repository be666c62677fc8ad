package state

import (
	"context"
	"fmt"

	"github.com/neuradesci/ledger/foundation/ledger/database"
)

// MineNewBlock batches the pending pool plus a synthesized reward
// transaction into a candidate block, performs the proof-of-work search,
// validates the result against the chain tip, and appends it. On any
// failure the chain and the pool are left untouched and the caller may
// retry. The search can be cancelled through the context.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: check pool count")

	if s.mempool.Count() == 0 {
		return database.Block{}, ErrEmptyPool
	}

	// The reward transaction is appended to a working copy of the pool so
	// a failed round leaves the pool as it was.
	trans := s.mempool.Copy()
	rewardTx := database.NewTx(
		s.provider,
		database.KindTokenTransfer,
		systemAccount,
		fmt.Sprintf("Reward: %d", s.genesis.MiningReward),
		database.WithRecipient(s.minerAccount),
	)
	trans = append(trans, rewardTx)

	tip, err := s.LatestBlock()
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: candidate blk[%d] txs[%d]", tip.Index+1, len(trans))

	// Mining runs outside the chain lock so reads stay responsive while
	// the nonce search burns CPU.
	block := database.NewBlock(s.provider, tip.Index+1, tip.Hash, trans, s.genesis.Difficulty)
	if err := block.Mine(ctx, s.provider, s.evHandler); err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate against the current tip with the same checks chain-wide
	// validation uses. One mining operation is in flight at a time, so
	// the tip cannot have moved, but the candidate is checked regardless.
	currentTip := s.chain[len(s.chain)-1]
	if err := block.ValidateBlock(currentTip, s.provider, s.evHandler); err != nil {
		return database.Block{}, fmt.Errorf("%w: %v", ErrInvalidBlock, err)
	}

	s.chain = append(s.chain, block)

	// Remove only the transactions this block carries. Submissions that
	// arrived while the nonce search was running stay pooled for the
	// next block.
	for _, tx := range block.Transactions {
		s.mempool.Delete(tx)
	}

	s.evHandler("state: MineNewBlock: MINING: appended blk[%d] hash[%s]", block.Index, block.Hash)

	return block, nil
}
