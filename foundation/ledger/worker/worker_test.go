package worker_test

import (
	"testing"
	"time"

	"github.com/neuradesci/ledger/foundation/ledger/crypto"
	"github.com/neuradesci/ledger/foundation/ledger/database"
	"github.com/neuradesci/ledger/foundation/ledger/genesis"
	"github.com/neuradesci/ledger/foundation/ledger/state"
	"github.com/neuradesci/ledger/foundation/ledger/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Worker(t *testing.T) {
	t.Log("Given the need to mine submitted transactions in the background.")
	{
		t.Logf("\tTest 0:\tWhen a signed transaction is submitted.")
		{
			st := state.New(state.Config{
				Genesis:      genesis.New(1, 10),
				MinerAccount: "miner1",
			})
			worker.Run(st, func(v string, args ...any) {})
			defer st.Shutdown()

			provider := st.Provider()

			private, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a key: %v", failed, err)
			}

			tx := database.NewTx(provider, database.KindTokenTransfer, "alice", "background mined")
			if err := tx.Sign(provider, private); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the transaction: %v", failed, err)
			}

			// Submission signals the worker, which mines on its own
			// goroutine. Poll until the block lands.
			if err := st.SubmitTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the transaction.", success)

			deadline := time.Now().Add(10 * time.Second)
			for st.ChainLength() < 2 {
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest 0:\tShould mine a block within the deadline.", failed)
				}
				time.Sleep(10 * time.Millisecond)
			}
			t.Logf("\t%s\tTest 0:\tShould mine a block within the deadline.", success)

			if _, err := st.FindTransaction(tx.ID); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould find the transaction on the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould find the transaction on the chain.", success)

			if !st.IsChainValid() {
				t.Fatalf("\t%s\tTest 0:\tShould leave the chain valid.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the chain valid.", success)
		}
	}
}
