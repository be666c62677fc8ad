package research

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neuradesci/ledger/business/sys/validate"
	"github.com/neuradesci/ledger/foundation/cas"
	"github.com/neuradesci/ledger/foundation/ledger/crypto"
	"github.com/neuradesci/ledger/foundation/ledger/database"
	"github.com/neuradesci/ledger/foundation/ledger/state"
)

// xorAlgorithm names the cipher used for private dataset payloads in the
// stored metadata.
const xorAlgorithm = "XOR-stream"

// ErrMissingKey is returned when a catalog operation needs the
// researcher's private key and the credential doesn't carry one.
var ErrMissingKey = errors.New("credential has no private key")

// =============================================================================

// anchor is the payload recorded on the ledger for a published dataset.
type anchor struct {
	DatasetID string `json:"dataset_id"`
	ContentID string `json:"content_id"`
	Title     string `json:"title"`
}

// Catalog binds the content store and the ledger together: publishing a
// dataset stores its payload and records a signed data-submission
// transaction anchoring it.
type Catalog struct {
	store    *cas.Store
	ledger   *state.State
	provider crypto.Provider
}

// NewCatalog constructs a catalog over the specified store and ledger.
func NewCatalog(store *cas.Store, ledger *state.State) *Catalog {
	return &Catalog{
		store:    store,
		ledger:   ledger,
		provider: ledger.Provider(),
	}
}

// Publish stores the dataset payload in the content store, encrypting it
// under the researcher's key when the dataset is private, and submits a
// signed data-submission transaction anchoring the dataset to the chain.
// The dataset record and the anchoring transaction id are returned.
func (c *Catalog) Publish(cred *Credential, nd NewDataset, content []byte) (Dataset, string, error) {
	if err := validate.Check(nd); err != nil {
		return Dataset{}, "", fmt.Errorf("validating dataset: %w", err)
	}

	if cred.privateKey == "" {
		return Dataset{}, "", ErrMissingKey
	}

	// Private payloads are kept out of the clear in the store.
	payload := content
	algorithm := ""
	if nd.Private {
		encrypted, err := crypto.Encrypt(string(content), cred.privateKey)
		if err != nil {
			return Dataset{}, "", fmt.Errorf("encrypting payload: %w", err)
		}
		payload = []byte(encrypted)
		algorithm = xorAlgorithm
	}

	md := cas.NewMetadata(nd.DataType, nd.Title, len(payload), nd.Private, algorithm, nd.Keywords)
	cid, err := c.store.Put(payload, md)
	if err != nil {
		return Dataset{}, "", fmt.Errorf("storing payload: %w", err)
	}

	ds := newDataset(nd, cred.ID, cid)

	data, err := json.Marshal(anchor{DatasetID: ds.ID, ContentID: cid, Title: ds.Title})
	if err != nil {
		return Dataset{}, "", fmt.Errorf("encoding anchor: %w", err)
	}

	tx := database.NewTx(c.provider, database.KindDataSubmission, cred.ID, string(data))
	if err := tx.Sign(c.provider, cred.privateKey); err != nil {
		return Dataset{}, "", err
	}

	if err := c.ledger.SubmitTransaction(tx); err != nil {
		return Dataset{}, "", fmt.Errorf("anchoring dataset: %w", err)
	}

	return ds, tx.ID, nil
}

// RequestAccess records a signed data-access transaction from the
// requesting researcher to the dataset owner.
func (c *Catalog) RequestAccess(cred *Credential, ds Dataset) (string, error) {
	if cred.privateKey == "" {
		return "", ErrMissingKey
	}

	tx := database.NewTx(
		c.provider,
		database.KindDataAccess,
		cred.ID,
		ds.ContentID,
		database.WithRecipient(ds.OwnerID),
	)
	if err := tx.Sign(c.provider, cred.privateKey); err != nil {
		return "", err
	}

	if err := c.ledger.SubmitTransaction(tx); err != nil {
		return "", fmt.Errorf("recording access request: %w", err)
	}

	return tx.ID, nil
}

// Retrieve fetches a dataset payload from the content store, decrypting
// it when the dataset is private.
func (c *Catalog) Retrieve(cred *Credential, ds Dataset) ([]byte, error) {
	content, err := c.store.Get(ds.ContentID)
	if err != nil {
		return nil, fmt.Errorf("fetching payload: %w", err)
	}

	if !ds.Private {
		return content, nil
	}

	if cred.privateKey == "" {
		return nil, ErrMissingKey
	}

	decrypted, err := crypto.Decrypt(string(content), cred.privateKey)
	if err != nil {
		return nil, fmt.Errorf("decrypting payload: %w", err)
	}

	return []byte(decrypted), nil
}
