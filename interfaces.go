// Package viewerprefs defines interfaces for storage, cookies, caching and encryption.
package viewerprefs

import (
	"context"
	"net/http"
	"time"
)

// Storage is a persistent key/value store namespaced per viewer.
// Values are opaque strings; the Manager JSON-encodes them before writing.
// Get must return ErrNotFound when the key is absent.
type Storage interface {
	Get(ctx context.Context, viewerID, key string) (string, error)
	Set(ctx context.Context, viewerID, key, value string) error
	Delete(ctx context.Context, viewerID, key string) error
	GetAll(ctx context.Context, viewerID string) (map[string]string, error)
	Close() error
}

// CookieStore is the ambient cookie jar of one viewer.
// CookieHeader returns the concatenated "name=value; name2=value2" header the
// viewer would send; SetCookie appends a cookie the way a Set-Cookie header does.
type CookieStore interface {
	CookieHeader(ctx context.Context) (string, error)
	SetCookie(ctx context.Context, c *http.Cookie) error
}

// Cache defines the methods required for a caching backend.
// The Manager mirrors published duration filters into it when configured.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// EncryptionManager encrypts stored values at rest.
// Decrypt must return an error wrapping ErrNotEncrypted for values that were
// never encrypted, so plaintext written before encryption was enabled stays readable.
type EncryptionManager interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encrypted string) (string, error)
}
