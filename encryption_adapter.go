package viewerprefs

import (
	"errors"
	"fmt"

	"github.com/CreativeUnicorns/viewerprefs/encryption"
)

// EncryptionAdapter adapts encryption.Manager to the EncryptionManager interface.
type EncryptionAdapter struct {
	manager *encryption.Manager
}

// NewEncryptionAdapter reads the key from the VIEWERPREFS_ENCRYPTION_KEY
// environment variable and fails fast if it is missing or too short.
func NewEncryptionAdapter() (*EncryptionAdapter, error) {
	manager, err := encryption.NewManager()
	if err != nil {
		return nil, err
	}
	return &EncryptionAdapter{manager: manager}, nil
}

// NewEncryptionAdapterWithKey creates an EncryptionAdapter with a provided key.
func NewEncryptionAdapterWithKey(key []byte) (*EncryptionAdapter, error) {
	manager, err := encryption.NewManagerWithKey(key)
	if err != nil {
		return nil, err
	}
	return &EncryptionAdapter{manager: manager}, nil
}

// Encrypt seals plaintext.
func (e *EncryptionAdapter) Encrypt(plaintext string) (string, error) {
	return e.manager.Encrypt(plaintext)
}

// Decrypt opens a sealed value. Plaintext input yields an error wrapping ErrNotEncrypted.
func (e *EncryptionAdapter) Decrypt(encrypted string) (string, error) {
	plain, err := e.manager.Decrypt(encrypted)
	if errors.Is(err, encryption.ErrNotSealed) {
		return "", fmt.Errorf("%w: %v", ErrNotEncrypted, err)
	}
	return plain, err
}
