package public

import (
	"github.com/neuradesci/ledger/business/sys/validate"
	"github.com/neuradesci/ledger/foundation/ledger/database"
)

// submitTx is the request model for submitting a signed transaction. The
// wallet constructs and signs the transaction; the node only checks the
// shape here and the presence of the signature in the ledger core.
type submitTx struct {
	ID        string  `json:"id" validate:"required"`
	Kind      string  `json:"kind" validate:"required"`
	Sender    string  `json:"sender" validate:"required"`
	Recipient *string `json:"recipient,omitempty"`
	TimeStamp uint64  `json:"timestamp" validate:"required"`
	Data      string  `json:"data"`
	Fee       *uint64 `json:"fee,omitempty"`
	Signature *string `json:"signature,omitempty"`
}

// Validate lets the web framework check the model after decoding.
func (st submitTx) Validate() error {
	return validate.Check(st)
}

// toDatabaseTx converts the request model into a ledger transaction.
func toDatabaseTx(st submitTx) database.Tx {
	return database.Tx{
		ID:        st.ID,
		Kind:      database.Kind(st.Kind),
		Sender:    st.Sender,
		Recipient: st.Recipient,
		TimeStamp: st.TimeStamp,
		Data:      st.Data,
		Fee:       st.Fee,
		Signature: st.Signature,
		Status:    database.StatusPending,
	}
}

// =============================================================================

// chainReport is the response model for the chain validation endpoint.
type chainReport struct {
	Valid       bool    `json:"valid"`
	Length      int     `json:"length"`
	FailedIndex *uint64 `json:"failed_index,omitempty"`
	Reason      *string `json:"reason,omitempty"`
}

// anchorRequest is the request model for anchoring the chain tip on the
// remote ledger.
type anchorRequest struct {
	GasLimit uint64 `json:"gas_limit" validate:"required"`
}

// Validate lets the web framework check the model after decoding.
func (ar anchorRequest) Validate() error {
	return validate.Check(ar)
}
