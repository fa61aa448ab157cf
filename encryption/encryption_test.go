package encryption

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "this-is-a-32-byte-key-for-test!!"

func TestNewManager(t *testing.T) {
	tests := []struct {
		name        string
		envValue    string
		expectError bool
		errorType   error
	}{
		{
			name:     "valid key",
			envValue: testKey,
		},
		{
			name:        "key too short",
			envValue:    "short",
			expectError: true,
			errorType:   ErrInvalidKeyLength,
		},
		{
			name:        "empty key",
			envValue:    "",
			expectError: true,
			errorType:   ErrKeyNotFound,
		},
		{
			name:     "exactly minimum length",
			envValue: strings.Repeat("a", MinKeyLength),
		},
		{
			name:     "longer than AES-256 key size",
			envValue: strings.Repeat("a", MinKeyLength+10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvKeyName, tt.envValue)

			manager, err := NewManager()
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, manager)
				assert.ErrorIs(t, err, tt.errorType)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, manager)
		})
	}
}

func TestEncryptDecrypt(t *testing.T) {
	manager, err := NewManagerWithKey([]byte(testKey))
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"json string", `"2"`},
		{"json bool", "true"},
		{"json number", "4.5"},
		{"empty", ""},
		{"unicode", `"réglages ✓"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := manager.Encrypt(tt.plaintext)
			require.NoError(t, err)
			assert.True(t, IsSealed(sealed))

			opened, err := manager.Decrypt(sealed)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, opened)
		})
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	manager, err := NewManagerWithKey([]byte(testKey))
	require.NoError(t, err)

	a, err := manager.Encrypt("true")
	require.NoError(t, err)
	b, err := manager.Encrypt("true")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_Errors(t *testing.T) {
	manager, err := NewManagerWithKey([]byte(testKey))
	require.NoError(t, err)

	_, err = manager.Decrypt(`"legacy"`)
	assert.ErrorIs(t, err, ErrNotSealed)

	_, err = manager.Decrypt(Prefix + "!!not-base64!!")
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = manager.Decrypt(Prefix + base64.RawURLEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrInvalidCiphertext)

	sealed, err := manager.Encrypt("true")
	require.NoError(t, err)
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(sealed, Prefix))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = manager.Decrypt(Prefix + base64.RawURLEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecrypt_WrongKey(t *testing.T) {
	m1, err := NewManagerWithKey([]byte(testKey))
	require.NoError(t, err)
	m2, err := NewManagerWithKey([]byte(strings.Repeat("b", MinKeyLength)))
	require.NoError(t, err)

	sealed, err := m1.Encrypt("false")
	require.NoError(t, err)

	_, err = m2.Decrypt(sealed)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestValidateKey(t *testing.T) {
	t.Setenv(EnvKeyName, "")
	assert.ErrorIs(t, ValidateKey(), ErrKeyNotFound)

	t.Setenv(EnvKeyName, "tiny")
	assert.ErrorIs(t, ValidateKey(), ErrInvalidKeyLength)

	t.Setenv(EnvKeyName, testKey)
	assert.NoError(t, ValidateKey())
}
