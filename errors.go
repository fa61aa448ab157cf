// errors.go
package viewerprefs

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input parameters")
	ErrInvalidKey         = errors.New("invalid preference key")
	ErrInvalidValue       = errors.New("invalid preference value")
	ErrNotFound           = errors.New("preference not found")
	ErrStorageUnavailable = errors.New("storage backend unavailable")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrSerialization      = errors.New("value serialization failed")
	ErrCookieParse        = errors.New("malformed cookie")
	ErrURLParse           = errors.New("malformed url")
	ErrCacheUnavailable   = errors.New("cache backend unavailable")
	ErrNotEncrypted       = errors.New("value is not encrypted")
)
