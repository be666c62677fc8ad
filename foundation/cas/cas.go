// Package cas provides a content-addressable store for dataset payloads.
// The implementation is a mock: content ids are derived from digests and
// no network traffic occurs. The Store type is specified only by its
// operations so a real IPFS-backed implementation can replace it without
// the callers noticing.
package cas

import (
	"errors"
	"fmt"
	"time"

	"github.com/neuradesci/ledger/foundation/ledger/crypto"
)

// cidPrefix marks a well-formed content id.
const cidPrefix = "Qm"

// ErrInvalidCID is returned when a content id is not well formed.
var ErrInvalidCID = errors.New("invalid content id format")

// =============================================================================

// Metadata describes a piece of stored content.
type Metadata struct {
	ContentType         string   `json:"content_type"`
	Name                string   `json:"name"`
	Size                int      `json:"size"`
	CreatedAt           uint64   `json:"created_at"`
	Encrypted           bool     `json:"encrypted"`
	EncryptionAlgorithm *string  `json:"encryption_algorithm,omitempty"`
	Tags                []string `json:"tags"`
}

// NewMetadata constructs metadata for content about to be stored.
func NewMetadata(contentType string, name string, size int, encrypted bool, algorithm string, tags []string) Metadata {
	md := Metadata{
		ContentType: contentType,
		Name:        name,
		Size:        size,
		CreatedAt:   uint64(time.Now().UTC().Unix()),
		Encrypted:   encrypted,
		Tags:        tags,
	}

	if algorithm != "" {
		md.EncryptionAlgorithm = &algorithm
	}

	return md
}

// =============================================================================

// Store represents a connection to a content-addressable store.
type Store struct {
	apiURL     string
	gatewayURL string
	provider   crypto.Provider
}

// New constructs a Store for use.
func New(apiURL string, gatewayURL string, provider crypto.Provider) *Store {
	return &Store{
		apiURL:     apiURL,
		gatewayURL: gatewayURL,
		provider:   provider,
	}
}

// Put stores content and returns its content id. The mock derives the id
// from the digest of the content, which keeps Put deterministic for the
// same bytes.
func (s *Store) Put(content []byte, md Metadata) (string, error) {
	contentHash := s.provider.Digest(string(content))
	cid := fmt.Sprintf("%s%s", cidPrefix, contentHash[:38])

	return cid, nil
}

// Get retrieves the content for the specified id. The mock returns a
// placeholder payload; a real implementation would fetch from a node.
func (s *Store) Get(cid string) ([]byte, error) {
	if err := validateCID(cid); err != nil {
		return nil, err
	}

	return fmt.Appendf(nil, "Mock content for CID: %s", cid), nil
}

// Pin marks content so it remains available.
func (s *Store) Pin(cid string) error {
	return validateCID(cid)
}

// Unpin releases content for garbage collection.
func (s *Store) Unpin(cid string) error {
	return validateCID(cid)
}

// GatewayURL returns the HTTP URL for accessing content through the
// configured gateway.
func (s *Store) GatewayURL(cid string) string {
	return fmt.Sprintf("%s/ipfs/%s", s.gatewayURL, cid)
}

// validateCID checks the content id is well formed.
func validateCID(cid string) error {
	if len(cid) < len(cidPrefix) || cid[:len(cidPrefix)] != cidPrefix {
		return ErrInvalidCID
	}

	return nil
}
