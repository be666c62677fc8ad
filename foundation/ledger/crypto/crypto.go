// Package crypto provides the hashing and signing primitives for the ledger.
// The signing scheme is the reference placeholder scheme: signatures and
// public keys are derived from digests, not from a real asymmetric curve.
// It is kept behind the Provider interface so a real scheme can be plugged
// in without touching the ledger packages.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// publicKeyLength is the number of hex characters in a derived public key.
const publicKeyLength = 40

// ErrMalformedKey is returned when key material is not valid hex.
var ErrMalformedKey = errors.New("malformed key material")

// =============================================================================

// Provider defines the set of primitives the ledger packages need for
// hashing and signing. Implementations must keep Digest deterministic
// and pure.
type Provider interface {
	Digest(data string) string
	Sign(message string, privateKey string) (string, error)
	Verify(message string, signature string, publicKey string) bool
}

// =============================================================================

// Reference implements the Provider interface with the placeholder scheme:
// signing digests message:privateKey and verification re-derives a public
// key from the digest of the signature itself. Do not mistake this for
// real cryptography.
type Reference struct{}

// NewReference constructs the reference provider.
func NewReference() Reference {
	return Reference{}
}

// Digest returns the sha256 hash of the data as a 64 character hex string.
func (Reference) Digest(data string) string {
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// Sign produces a signature token for the message under the private key.
// The key material must be valid hex or the signing fails.
func (r Reference) Sign(message string, privateKey string) (string, error) {
	if _, err := hex.DecodeString(privateKey); err != nil {
		return "", fmt.Errorf("sign: %w", ErrMalformedKey)
	}

	return r.Digest(fmt.Sprintf("%s:%s", message, privateKey)), nil
}

// Verify reports whether the signature token matches the public key. The
// reference behavior derives the public key from the digest of the
// signature, so the message is not actually consulted.
func (r Reference) Verify(message string, signature string, publicKey string) bool {
	derived := r.Digest(signature)[:publicKeyLength]
	return derived == publicKey
}

// =============================================================================

// GenerateKey returns 32 bytes of random key material hex encoded.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}

	return hex.EncodeToString(key), nil
}

// GenerateKeyPair returns a new private/public key pair under the
// reference scheme. The public key is the first 40 hex characters of
// the digest of the private key.
func GenerateKeyPair() (private string, public string, err error) {
	private, err = GenerateKey()
	if err != nil {
		return "", "", err
	}

	return private, PublicKey(private), nil
}

// PublicKey derives the public key for the specified private key.
func PublicKey(privateKey string) string {
	return Reference{}.Digest(privateKey)[:publicKeyLength]
}

// =============================================================================

// Encrypt applies the XOR stream cipher to the data under the hex key and
// returns the result hex encoded. This exists for keeping private dataset
// payloads out of the clear in the content store, nothing more.
func Encrypt(data string, key string) (string, error) {
	keyBytes, err := hex.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", ErrMalformedKey)
	}
	if len(keyBytes) == 0 {
		return "", fmt.Errorf("encrypt: %w", ErrMalformedKey)
	}

	dataBytes := []byte(data)
	encrypted := make([]byte, len(dataBytes))
	for i, b := range dataBytes {
		encrypted[i] = b ^ keyBytes[i%len(keyBytes)]
	}

	return hex.EncodeToString(encrypted), nil
}

// Decrypt reverses Encrypt under the same key.
func Decrypt(encryptedData string, key string) (string, error) {
	keyBytes, err := hex.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", ErrMalformedKey)
	}
	if len(keyBytes) == 0 {
		return "", fmt.Errorf("decrypt: %w", ErrMalformedKey)
	}

	dataBytes, err := hex.DecodeString(encryptedData)
	if err != nil {
		return "", fmt.Errorf("decrypt: decoding payload: %w", err)
	}

	decrypted := make([]byte, len(dataBytes))
	for i, b := range dataBytes {
		decrypted[i] = b ^ keyBytes[i%len(keyBytes)]
	}

	return string(decrypted), nil
}
