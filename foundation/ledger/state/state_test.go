package state_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/neuradesci/ledger/foundation/ledger/crypto"
	"github.com/neuradesci/ledger/foundation/ledger/database"
	"github.com/neuradesci/ledger/foundation/ledger/genesis"
	"github.com/neuradesci/ledger/foundation/ledger/state"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func newTestState(t *testing.T, difficulty uint, reward uint64) *state.State {
	t.Helper()

	return state.New(state.Config{
		Genesis:      genesis.New(difficulty, reward),
		MinerAccount: "miner1",
	})
}

func signedTx(t *testing.T, provider crypto.Provider, sender string, data string, options ...database.TxOption) database.Tx {
	t.Helper()

	private, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	tx := database.NewTx(provider, database.KindTokenTransfer, sender, data, options...)
	if err := tx.Sign(provider, private); err != nil {
		t.Fatalf("signing transaction: %v", err)
	}

	return tx
}

// hookProvider wraps the reference provider and runs a callback on the
// armed digest call. It lets a test act at a precise point inside a
// mining operation.
type hookProvider struct {
	crypto.Reference

	mu     sync.Mutex
	calls  int
	fireAt int
	hook   func()
}

func (p *hookProvider) arm(after int, hook func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fireAt = p.calls + after
	p.hook = hook
}

func (p *hookProvider) Digest(data string) string {
	p.mu.Lock()
	p.calls++
	var hook func()
	if p.hook != nil && p.calls == p.fireAt {
		hook = p.hook
		p.hook = nil
	}
	p.mu.Unlock()

	if hook != nil {
		hook()
	}

	return p.Reference.Digest(data)
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a chain from its genesis block.")
	{
		t.Logf("\tTest 0:\tWhen constructing a new ledger.")
		{
			st := newTestState(t, 2, 50)
			defer st.Shutdown()

			if st.ChainLength() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould start with exactly the genesis block: got %d", failed, st.ChainLength())
			}
			t.Logf("\t%s\tTest 0:\tShould start with exactly the genesis block.", success)

			blk, err := st.LatestBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to read the latest block: %v", failed, err)
			}

			if blk.Index != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould have index 0 on the genesis block: got %d", failed, blk.Index)
			}
			t.Logf("\t%s\tTest 0:\tShould have index 0 on the genesis block.", success)

			if blk.PrevHash != database.ZeroHash {
				t.Fatalf("\t%s\tTest 0:\tShould carry the sentinel previous hash: got %s", failed, blk.PrevHash)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the sentinel previous hash.", success)

			if len(blk.Transactions) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould carry no transactions: got %d", failed, len(blk.Transactions))
			}
			t.Logf("\t%s\tTest 0:\tShould carry no transactions.", success)

			gen := st.RetrieveGenesis()
			if gen.Difficulty != 2 || gen.MiningReward != 50 {
				t.Fatalf("\t%s\tTest 0:\tShould retain the genesis settings.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould retain the genesis settings.", success)
		}
	}
}

func Test_SubmitTransaction(t *testing.T) {
	t.Log("Given the need to gate submissions on the presence of a signature.")
	{
		t.Logf("\tTest 0:\tWhen submitting an unsigned transaction.")
		{
			st := newTestState(t, 0, 10)
			defer st.Shutdown()

			tx := database.NewTx(st.Provider(), database.KindTokenTransfer, "alice", "unsigned")

			err := st.SubmitTransaction(tx)
			if !errors.Is(err, state.ErrInvalidTransaction) {
				t.Fatalf("\t%s\tTest 0:\tShould reject an unsigned transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject an unsigned transaction.", success)

			if st.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould not pool a rejected transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not pool a rejected transaction.", success)
		}

		t.Logf("\tTest 1:\tWhen submitting signed transactions.")
		{
			st := newTestState(t, 0, 10)
			defer st.Shutdown()

			tx1 := signedTx(t, st.Provider(), "alice", "first")
			tx2 := signedTx(t, st.Provider(), "bob", "second")

			if err := st.SubmitTransaction(tx1); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept a signed transaction: %v", failed, err)
			}
			if err := st.SubmitTransaction(tx2); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept a signed transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould accept signed transactions.", success)

			pool := st.RetrieveMempool()
			if len(pool) != 2 || pool[0].ID != tx1.ID || pool[1].ID != tx2.ID {
				t.Fatalf("\t%s\tTest 1:\tShould pool transactions in arrival order.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould pool transactions in arrival order.", success)
		}
	}
}

func Test_Mining(t *testing.T) {
	t.Log("Given the need to mine pending transactions into blocks.")
	{
		t.Logf("\tTest 0:\tWhen the pool is empty.")
		{
			st := newTestState(t, 0, 10)
			defer st.Shutdown()

			if _, err := st.MineNewBlock(context.Background()); !errors.Is(err, state.ErrEmptyPool) {
				t.Fatalf("\t%s\tTest 0:\tShould refuse to mine an empty pool: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould refuse to mine an empty pool.", success)
		}

		t.Logf("\tTest 1:\tWhen mining two pooled transactions at difficulty 1.")
		{
			const reward = 10

			st := newTestState(t, 1, reward)
			defer st.Shutdown()

			tx1 := signedTx(t, st.Provider(), "alice", "first")
			tx2 := signedTx(t, st.Provider(), "bob", "second")

			if err := st.SubmitTransaction(tx1); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the transaction: %v", failed, err)
			}
			if err := st.SubmitTransaction(tx2); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the transaction: %v", failed, err)
			}

			blk, err := st.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to mine the block.", success)

			if blk.Index != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould mine the next index: got %d", failed, blk.Index)
			}
			t.Logf("\t%s\tTest 1:\tShould mine the next index.", success)

			if len(blk.Transactions) != 3 {
				t.Fatalf("\t%s\tTest 1:\tShould carry the pooled transactions plus the reward: got %d", failed, len(blk.Transactions))
			}
			t.Logf("\t%s\tTest 1:\tShould carry the pooled transactions plus the reward.", success)

			rewardTx := blk.Transactions[2]
			if rewardTx.Sender != "System" {
				t.Fatalf("\t%s\tTest 1:\tShould record the system account on the reward: got %s", failed, rewardTx.Sender)
			}
			t.Logf("\t%s\tTest 1:\tShould record the system account on the reward.", success)

			if rewardTx.Data != fmt.Sprintf("Reward: %d", reward) {
				t.Fatalf("\t%s\tTest 1:\tShould record the reward amount in the data: got %q", failed, rewardTx.Data)
			}
			t.Logf("\t%s\tTest 1:\tShould record the reward amount in the data.", success)

			if rewardTx.Recipient == nil || *rewardTx.Recipient != "miner1" {
				t.Fatalf("\t%s\tTest 1:\tShould credit the miner account on the reward.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould credit the miner account on the reward.", success)

			if st.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould remove the mined transactions from the pool.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould remove the mined transactions from the pool.", success)

			// Inclusion does not advance the lifecycle of a transaction.
			if blk.Transactions[0].Status != database.StatusPending {
				t.Fatalf("\t%s\tTest 1:\tShould leave included transactions in their submitted status.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould leave included transactions in their submitted status.", success)

			if !st.IsChainValid() {
				t.Fatalf("\t%s\tTest 1:\tShould have a valid chain after mining.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould have a valid chain after mining.", success)
		}

		t.Logf("\tTest 2:\tWhen cancelling the mining run.")
		{
			// Difficulty 32 cannot be solved, so the cancel is the only
			// way out of the search.
			st := newTestState(t, 32, 10)
			defer st.Shutdown()

			tx := signedTx(t, st.Provider(), "alice", "never mined")
			if err := st.SubmitTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept the transaction: %v", failed, err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := st.MineNewBlock(ctx); !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest 2:\tShould stop with the context error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould stop with the context error.", success)

			if st.ChainLength() != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould not grow the chain on a cancelled mine.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not grow the chain on a cancelled mine.", success)

			if st.QueryMempoolLength() != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould keep the pool intact on a cancelled mine.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould keep the pool intact on a cancelled mine.", success)
		}
	}
}

func Test_MidMineSubmission(t *testing.T) {
	t.Log("Given the need to keep submissions that arrive while a block is being mined.")
	{
		t.Logf("\tTest 0:\tWhen a transaction is accepted after the mining copy is taken.")
		{
			provider := &hookProvider{}

			st := state.New(state.Config{
				Genesis:      genesis.New(1, 10),
				MinerAccount: "miner1",
				Provider:     provider,
			})
			defer st.Shutdown()

			tx1 := signedTx(t, provider, "alice", "mined this round")
			tx2 := signedTx(t, provider, "bob", "arrived mid mine")

			if err := st.SubmitTransaction(tx1); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the first transaction: %v", failed, err)
			}

			// The first digest call inside MineNewBlock happens after the
			// pool has been copied, so a submission fired there lands in
			// the pool but not in the candidate block.
			var submitErr error
			provider.arm(1, func() {
				submitErr = st.SubmitTransaction(tx2)
			})

			blk, err := st.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine the block.", success)

			if submitErr != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the mid-mine submission: %v", failed, submitErr)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the mid-mine submission.", success)

			for _, tx := range blk.Transactions {
				if tx.ID == tx2.ID {
					t.Fatalf("\t%s\tTest 0:\tShould not carry the mid-mine submission in the block.", failed)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould not carry the mid-mine submission in the block.", success)

			pool := st.RetrieveMempool()
			if len(pool) != 1 || pool[0].ID != tx2.ID {
				t.Fatalf("\t%s\tTest 0:\tShould keep the mid-mine submission pooled: pool len %d", failed, len(pool))
			}
			t.Logf("\t%s\tTest 0:\tShould keep the mid-mine submission pooled.", success)

			if _, err := st.FindTransaction(tx2.ID); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould still find the mid-mine submission: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould still find the mid-mine submission.", success)

			// The next round commits it.
			blk, err = st.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the next block: %v", failed, err)
			}

			if blk.Transactions[0].ID != tx2.ID {
				t.Fatalf("\t%s\tTest 0:\tShould commit the held transaction in the next block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould commit the held transaction in the next block.", success)

			if st.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the pool empty after the second mine.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the pool empty after the second mine.", success)
		}
	}
}

func Test_Queries(t *testing.T) {
	t.Log("Given the need to look up blocks and transactions.")
	{
		t.Logf("\tTest 0:\tWhen finding a transaction in the pool and in the chain.")
		{
			st := newTestState(t, 0, 10)
			defer st.Shutdown()

			tx := signedTx(t, st.Provider(), "alice", "findable")
			if err := st.SubmitTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}

			got, err := st.FindTransaction(tx.ID)
			if err != nil || got.ID != tx.ID {
				t.Fatalf("\t%s\tTest 0:\tShould find the transaction in the pool: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould find the transaction in the pool.", success)

			if _, err := st.MineNewBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the block: %v", failed, err)
			}

			got, err = st.FindTransaction(tx.ID)
			if err != nil || got.ID != tx.ID {
				t.Fatalf("\t%s\tTest 0:\tShould find the transaction in the chain after mining: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould find the transaction in the chain after mining.", success)

			if _, err := st.FindTransaction("no-such-id"); !errors.Is(err, state.ErrNotFound) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrNotFound for an unknown id: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrNotFound for an unknown id.", success)
		}

		t.Logf("\tTest 1:\tWhen retrieving blocks by index.")
		{
			st := newTestState(t, 0, 10)
			defer st.Shutdown()

			blk, err := st.RetrieveBlock(0)
			if err != nil || blk.Index != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould retrieve the genesis block by index: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould retrieve the genesis block by index.", success)

			if _, err := st.RetrieveBlock(99); !errors.Is(err, state.ErrNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrNotFound for an out of range index: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrNotFound for an out of range index.", success)
		}

		t.Logf("\tTest 2:\tWhen querying blocks by account.")
		{
			st := newTestState(t, 0, 10)
			defer st.Shutdown()

			tx := signedTx(t, st.Provider(), "alice", "for carol", database.WithRecipient("carol"))
			if err := st.SubmitTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept the transaction: %v", failed, err)
			}
			if _, err := st.MineNewBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mine the block: %v", failed, err)
			}

			if blocks := st.QueryBlocksByAccount("carol"); len(blocks) != 1 || blocks[0].Index != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould find the block by recipient account.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould find the block by recipient account.", success)

			if blocks := st.QueryBlocksByAccount("nobody"); len(blocks) != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould find nothing for an unknown account.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould find nothing for an unknown account.", success)
		}
	}
}

func Test_Validation(t *testing.T) {
	t.Log("Given the need to detect tampering anywhere in the chain.")
	{
		t.Logf("\tTest 0:\tWhen the chain is honest.")
		{
			st := newTestState(t, 1, 10)
			defer st.Shutdown()

			for i := 0; i < 2; i++ {
				tx := signedTx(t, st.Provider(), "alice", fmt.Sprintf("payload %d", i))
				if err := st.SubmitTransaction(tx); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
				}
				if _, err := st.MineNewBlock(context.Background()); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to mine block %d: %v", failed, i+1, err)
				}
			}

			if err := st.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould validate an honest chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould validate an honest chain.", success)
		}

		t.Logf("\tTest 1:\tWhen a block in the middle is tampered with.")
		{
			st := newTestState(t, 1, 10)
			defer st.Shutdown()

			for i := 0; i < 2; i++ {
				tx := signedTx(t, st.Provider(), "alice", fmt.Sprintf("payload %d", i))
				if err := st.SubmitTransaction(tx); err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould accept the transaction: %v", failed, err)
				}
				if _, err := st.MineNewBlock(context.Background()); err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould be able to mine block %d: %v", failed, i+1, err)
				}
			}

			// Rebuild the ledger from a document with block 1 forged. The
			// interchange path is the only way to install a tampered chain.
			doc := st.Document()
			doc.Chain[1].Transactions[0].ID = st.Provider().Digest("forged")

			forged, err := state.FromDocument(state.Config{MinerAccount: "miner1"}, doc)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to rebuild from the document: %v", failed, err)
			}
			defer forged.Shutdown()

			err = forged.Validate()
			if err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould detect the forged block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould detect the forged block.", success)

			var ice *state.InvalidChainError
			if !errors.As(err, &ice) {
				t.Fatalf("\t%s\tTest 1:\tShould report the failure as an InvalidChainError: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould report the failure as an InvalidChainError.", success)

			if ice.Index != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould name the forged block's index: got %d", failed, ice.Index)
			}
			t.Logf("\t%s\tTest 1:\tShould name the forged block's index.", success)

			if forged.IsChainValid() {
				t.Fatalf("\t%s\tTest 1:\tShould report the chain invalid.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould report the chain invalid.", success)
		}
	}
}

func Test_Document(t *testing.T) {
	t.Log("Given the need to round trip the whole ledger through its interchange form.")
	{
		t.Logf("\tTest 0:\tWhen encoding and rebuilding the ledger.")
		{
			st := newTestState(t, 1, 25)
			defer st.Shutdown()

			mined := signedTx(t, st.Provider(), "alice", "mined payload")
			if err := st.SubmitTransaction(mined); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}
			if _, err := st.MineNewBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the block: %v", failed, err)
			}

			pending := signedTx(t, st.Provider(), "bob", "still pending")
			if err := st.SubmitTransaction(pending); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}

			data, err := st.Encode()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to encode the ledger: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to encode the ledger.", success)

			doc, err := state.DecodeDocument(data)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to decode the document: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to decode the document.", success)

			restored, err := state.FromDocument(state.Config{MinerAccount: "miner1"}, doc)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to rebuild the ledger: %v", failed, err)
			}
			defer restored.Shutdown()
			t.Logf("\t%s\tTest 0:\tShould be able to rebuild the ledger.", success)

			if restored.ChainLength() != st.ChainLength() {
				t.Fatalf("\t%s\tTest 0:\tShould restore the full chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould restore the full chain.", success)

			pool := restored.RetrieveMempool()
			if len(pool) != 1 || pool[0].ID != pending.ID {
				t.Fatalf("\t%s\tTest 0:\tShould restore the pending pool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould restore the pending pool.", success)

			gen := restored.RetrieveGenesis()
			if gen.Difficulty != 1 || gen.MiningReward != 25 {
				t.Fatalf("\t%s\tTest 0:\tShould restore the settings from the document.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould restore the settings from the document.", success)

			if !restored.IsChainValid() {
				t.Fatalf("\t%s\tTest 0:\tShould validate the restored chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould validate the restored chain.", success)
		}

		t.Logf("\tTest 1:\tWhen the document carries no chain.")
		{
			if _, err := state.FromDocument(state.Config{}, state.Document{}); !errors.Is(err, state.ErrChainEmpty) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrChainEmpty: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrChainEmpty.", success)
		}
	}
}
