package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/neuradesci/ledger/foundation/ledger/crypto"
)

// ErrSigningFailure is returned when the crypto provider cannot produce
// a signature for a transaction.
var ErrSigningFailure = errors.New("signing failure")

// =============================================================================

// Kind represents the kind of activity a transaction records. The set is
// open ended: any other value is treated as a custom kind.
type Kind string

// Set of known transaction kinds.
const (
	KindDataSubmission         Kind = "data-submission"
	KindDataAccess             Kind = "data-access"
	KindCredentialVerification Kind = "credential-verification"
	KindTokenTransfer          Kind = "token-transfer"
	KindContractInteraction    Kind = "contract-interaction"
)

// IsCustom reports whether the kind is outside the known set.
func (k Kind) IsCustom() bool {
	switch k {
	case KindDataSubmission, KindDataAccess, KindCredentialVerification, KindTokenTransfer, KindContractInteraction:
		return false
	}
	return true
}

// =============================================================================

// Status represents where a transaction is in its lifecycle. Inclusion in
// a block does not advance the status; that transition was never part of
// the reference behavior.
type Status string

// Set of transaction statuses.
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
	StatusRejected  Status = "rejected"
)

// =============================================================================

// Tx is a signed intent recorded in the ledger. The ID is assigned at
// construction from the sender, timestamp, and data and is never
// recomputed. All fields other than Signature and Status are fixed
// after construction.
type Tx struct {
	ID        string  `json:"id"`
	Kind      Kind    `json:"kind"`
	Sender    string  `json:"sender"`
	Recipient *string `json:"recipient,omitempty"`
	TimeStamp uint64  `json:"timestamp"`
	Data      string  `json:"data"`
	Fee       *uint64 `json:"fee,omitempty"`
	Signature *string `json:"signature,omitempty"`
	Status    Status  `json:"status"`
}

// TxOption applies an optional field at construction.
type TxOption func(tx *Tx)

// WithRecipient sets the account receiving the benefit of the transaction.
func WithRecipient(recipient string) TxOption {
	return func(tx *Tx) {
		tx.Recipient = &recipient
	}
}

// WithFee sets the fee offered for processing the transaction.
func WithFee(fee uint64) TxOption {
	return func(tx *Tx) {
		tx.Fee = &fee
	}
}

// NewTx constructs a new pending transaction. The ID is the digest of the
// sender, creation time, and data.
func NewTx(provider crypto.Provider, kind Kind, sender string, data string, options ...TxOption) Tx {
	timeStamp := uint64(time.Now().UTC().Unix())

	tx := Tx{
		ID:        provider.Digest(fmt.Sprintf("%s%d%s", sender, timeStamp, data)),
		Kind:      kind,
		Sender:    sender,
		TimeStamp: timeStamp,
		Data:      data,
		Status:    StatusPending,
	}

	for _, option := range options {
		option(&tx)
	}

	return tx
}

// Sign produces a signature for the transaction's canonical signing string
// and stores it on the transaction.
func (tx *Tx) Sign(provider crypto.Provider, privateKey string) error {
	signature, err := provider.Sign(tx.SigningString(), privateKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}

	tx.Signature = &signature
	return nil
}

// VerifySignature reports whether the stored signature checks out against
// the public key. An unsigned transaction never verifies.
func (tx Tx) VerifySignature(provider crypto.Provider, publicKey string) bool {
	if tx.Signature == nil {
		return false
	}

	return provider.Verify(tx.SigningString(), *tx.Signature, publicKey)
}

// IsSigned reports whether a signature is present. Presence is all the
// ledger checks at submission time; validity is the verifier's concern.
func (tx Tx) IsSigned() bool {
	return tx.Signature != nil
}

// SigningString returns the canonical text the signature covers. An unset
// recipient contributes an empty field.
func (tx Tx) SigningString() string {
	var recipient string
	if tx.Recipient != nil {
		recipient = *tx.Recipient
	}

	return fmt.Sprintf("%s:%s:%s:%d:%s", tx.ID, tx.Sender, recipient, tx.TimeStamp, tx.Data)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s", tx.Sender, tx.ID[:8])
}

// =============================================================================

// EncodeTx marshals a transaction to its interchange form.
func EncodeTx(tx Tx) ([]byte, error) {
	return json.Marshal(tx)
}

// DecodeTx unmarshals a transaction from its interchange form. Optional
// fields absent on encode stay absent.
func DecodeTx(data []byte) (Tx, error) {
	var tx Tx
	if err := json.Unmarshal(data, &tx); err != nil {
		return Tx{}, fmt.Errorf("decoding transaction: %w", err)
	}

	return tx, nil
}
