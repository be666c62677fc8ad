// Package bridge simulates a connection to a remote ledger. Submissions
// produce digest-derived receipts and no network traffic occurs; the
// Connector is specified only by the operations the node calls on it so
// a real transport can replace it later.
package bridge

import (
	"fmt"
	"time"

	"github.com/neuradesci/ledger/foundation/ledger/crypto"
)

// EventHandler defines a function that is called when events occur during
// bridge operations.
type EventHandler func(v string, args ...any)

// Receipt is the acknowledgement returned for a submitted payload.
type Receipt struct {
	ID          string `json:"id"`
	SubmittedAt uint64 `json:"submitted_at"`
}

// =============================================================================

// Connector represents a simulated connection to a remote ledger.
type Connector struct {
	endpoint  string
	chainID   uint64
	provider  crypto.Provider
	evHandler EventHandler
}

// New constructs a Connector for the specified endpoint.
func New(endpoint string, chainID uint64, provider crypto.Provider, evHandler EventHandler) *Connector {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Connector{
		endpoint:  endpoint,
		chainID:   chainID,
		provider:  provider,
		evHandler: ev,
	}
}

// Submit sends a payload to the remote ledger and returns a receipt. The
// simulation derives the receipt id from the payload, the gas limit, and
// the submission time.
func (c *Connector) Submit(payload string, gasLimit uint64) (Receipt, error) {
	c.evHandler("bridge: Submit: endpoint[%s] chain[%d] gasLimit[%d]", c.endpoint, c.chainID, gasLimit)

	submittedAt := uint64(time.Now().UTC().Unix())
	receipt := Receipt{
		ID:          c.provider.Digest(fmt.Sprintf("%s%d%d", payload, gasLimit, submittedAt)),
		SubmittedAt: submittedAt,
	}

	c.evHandler("bridge: Submit: receipt[%s]", receipt.ID)

	return receipt, nil
}

// CallContract invokes a method on a remote contract and returns the
// simulated result.
func (c *Connector) CallContract(contractAddress string, method string, params []string) (string, error) {
	c.evHandler("bridge: CallContract: contract[%s] method[%s] params[%d]", contractAddress, method, len(params))

	result := fmt.Sprintf("contract_result_%s", c.provider.Digest(method)[:8])
	return result, nil
}
