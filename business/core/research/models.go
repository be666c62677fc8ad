// Package research provides the researcher and dataset models for the
// platform and the catalog that anchors datasets into the ledger.
package research

import (
	"time"

	"github.com/google/uuid"
)

// Credential represents a researcher's identity in the ecosystem. The
// private key never leaves the process: it is excluded from every
// serialized form.
type Credential struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	Institution    string   `json:"institution"`
	Publications   []string `json:"publications"`

	privateKey string
}

// NewCredential constructs a credential for a researcher. A fresh id is
// assigned when none is provided.
func NewCredential(id string, name string, specialization string, institution string) *Credential {
	if id == "" {
		id = uuid.NewString()
	}

	return &Credential{
		ID:             id,
		Name:           name,
		Specialization: specialization,
		Institution:    institution,
	}
}

// AddPublication records a publication id against the credential.
func (c *Credential) AddPublication(publicationID string) {
	c.Publications = append(c.Publications, publicationID)
}

// SetPrivateKey installs the researcher's signing key.
func (c *Credential) SetPrivateKey(privateKey string) {
	c.privateKey = privateKey
}

// =============================================================================

// Dataset represents a neuroscience dataset anchored in the ledger. The
// payload itself lives in the content store under ContentID.
type Dataset struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DataType    string   `json:"data_type"`
	ContentID   string   `json:"content_id"`
	OwnerID     string   `json:"owner_id"`
	TimeStamp   uint64   `json:"timestamp"`
	License     string   `json:"license"`
	Keywords    []string `json:"keywords"`
	Private     bool     `json:"private"`
}

// NewDataset is the information required to publish a dataset. The tags
// drive request validation at the API boundary.
type NewDataset struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	DataType    string   `json:"data_type" validate:"required"`
	License     string   `json:"license" validate:"required"`
	Keywords    []string `json:"keywords"`
	Private     bool     `json:"private"`
}

// newDataset constructs the dataset record for a publish operation.
func newDataset(nd NewDataset, ownerID string, contentID string) Dataset {
	return Dataset{
		ID:          uuid.NewString(),
		Title:       nd.Title,
		Description: nd.Description,
		DataType:    nd.DataType,
		ContentID:   contentID,
		OwnerID:     ownerID,
		TimeStamp:   uint64(time.Now().UTC().Unix()),
		License:     nd.License,
		Keywords:    nd.Keywords,
		Private:     nd.Private,
	}
}
