// Package encryption seals stored preference values with AES-256-GCM.
// Sealed values carry a version prefix so they can be told apart from plaintext
// written before encryption was turned on.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// MinKeyLength is the minimum accepted key length in bytes.
	MinKeyLength = 32
	// EnvKeyName is the environment variable NewManager reads the key from.
	EnvKeyName = "VIEWERPREFS_ENCRYPTION_KEY"
	// Prefix marks a sealed value.
	Prefix = "enc:v1:"
)

var (
	ErrInvalidKeyLength  = errors.New("encryption key must be at least 32 bytes")
	ErrKeyNotFound       = errors.New("encryption key not found in environment variable " + EnvKeyName)
	ErrEncryptionFailed  = errors.New("encryption operation failed")
	ErrDecryptionFailed  = errors.New("decryption operation failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext: too short or malformed")
	ErrNotSealed         = errors.New("value is not sealed")
)

// Manager seals and opens values. It is safe for concurrent use.
type Manager struct {
	aead cipher.AEAD
}

// NewManager builds a Manager from the key in EnvKeyName.
func NewManager() (*Manager, error) {
	keyStr := os.Getenv(EnvKeyName)
	if keyStr == "" {
		return nil, ErrKeyNotFound
	}
	return NewManagerWithKey([]byte(keyStr))
}

// NewManagerWithKey builds a Manager from key. Keys of any length from
// MinKeyLength up are accepted; the AES-256 key is the SHA-256 of key.
func NewManagerWithKey(key []byte) (*Manager, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(key))
	}

	sum := sha256.Sum256(key)
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create cipher: %v", ErrEncryptionFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GCM: %v", ErrEncryptionFailed, err)
	}
	return &Manager{aead: aead}, nil
}

// IsSealed reports whether s carries the sealed-value prefix.
func IsSealed(s string) bool {
	return strings.HasPrefix(s, Prefix)
}

// Encrypt seals plaintext as Prefix + base64(nonce || ciphertext).
func (m *Manager) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, m.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: failed to generate nonce: %v", ErrEncryptionFailed, err)
	}

	sealed := m.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return Prefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Values without Prefix return ErrNotSealed.
func (m *Manager) Decrypt(sealed string) (string, error) {
	if !IsSealed(sealed) {
		return "", ErrNotSealed
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(sealed, Prefix))
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrDecryptionFailed, err)
	}

	nonceSize := m.aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := m.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

// ValidateKey checks the key in EnvKeyName without building a Manager.
func ValidateKey() error {
	keyStr := os.Getenv(EnvKeyName)
	if keyStr == "" {
		return ErrKeyNotFound
	}
	if len(keyStr) < MinKeyLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(keyStr))
	}
	return nil
}
