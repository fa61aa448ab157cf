package viewerprefs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minuteTolerance = time.Minute

func TestSafeSet_JSONEncodes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.settings.safeSet(ctx, KeyDarkMode, true)
	env.settings.safeSet(ctx, KeyShortVideoFilterMinutes, 4.5)
	env.settings.safeSet(ctx, KeyDefaultPlayback, "2")
	env.settings.safeSet(ctx, "custom", map[string]int{"a": 1})

	for key, want := range map[string]string{
		KeyDarkMode:                "true",
		KeyShortVideoFilterMinutes: "4.5",
		KeyDefaultPlayback:         `"2"`,
		"custom":                   `{"a":1}`,
	} {
		raw, ok := env.storage.Peek("viewer1", key)
		require.True(t, ok, key)
		assert.Equal(t, want, raw, key)
	}
}

func TestSafeSet_DropsInvalidWrites(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.settings.safeSet(ctx, KeyDarkMode, "yes")
	env.settings.safeSet(ctx, "custom", make(chan int))
	env.settings.safeSet(ctx, "", 1)

	_, ok := env.storage.Peek("viewer1", KeyDarkMode)
	assert.False(t, ok)
	_, ok = env.storage.Peek("viewer1", "custom")
	assert.False(t, ok)
	assert.Len(t, env.logger.Errors(), 3)
}

func TestSafeGet_TwoStageDecode(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		raw  string
		want interface{}
	}{
		{`"2"`, "2"},
		{"2", float64(2)},
		{"true", true},
		{"null", nil},
		{"plain text", "plain text"},
		{`{"broken"`, `{"broken"`},
	}

	for _, tt := range tests {
		env.storage.Raw("viewer1", "k", tt.raw)
		got, found := env.settings.safeGet(ctx, "k")
		assert.True(t, found, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	_, found := env.settings.safeGet(ctx, "missing")
	assert.False(t, found)
}

func TestSafeGetSet_WithEncryption(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewEncryptionAdapterWithKey([]byte("this-is-a-32-byte-key-for-test!!"))
	require.NoError(t, err)
	env := newTestEnv(t, WithEncryption(adapter))

	env.settings.SaveDarkMode(ctx, true)

	raw, ok := env.storage.Peek("viewer1", KeyDarkMode)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, "enc:v1:"), "stored value should be sealed: %s", raw)

	dark, defaulted := env.settings.LoadDarkMode(ctx)
	assert.True(t, dark)
	assert.False(t, defaulted)
}

func TestSafeGet_EncryptionReadsLegacyPlaintext(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewEncryptionAdapterWithKey([]byte("this-is-a-32-byte-key-for-test!!"))
	require.NoError(t, err)
	env := newTestEnv(t, WithEncryption(adapter))
	env.storage.Raw("viewer1", KeyDefaultPlayback, "5")

	mode, _ := env.settings.LoadDefaultPlayback(ctx)
	assert.Equal(t, "5", mode)
	assert.Empty(t, env.logger.Errors())
}

func TestSafeGet_TamperedCiphertextFallsBack(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewEncryptionAdapterWithKey([]byte("this-is-a-32-byte-key-for-test!!"))
	require.NoError(t, err)
	env := newTestEnv(t, WithEncryption(adapter))
	env.storage.Raw("viewer1", KeyDarkMode, "enc:v1:AAAA")

	dark, defaulted := env.settings.LoadDarkMode(ctx)
	assert.False(t, dark)
	assert.True(t, defaulted)
	assert.True(t, env.logger.HasError("safeGet"))
}
