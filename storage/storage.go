// Package storage provides key/value backends for viewerprefs.Storage:
// an in-memory map with an optional quota, SQLite and PostgreSQL.
// Values are stored as opaque strings; encoding is the Manager's concern.
package storage

import (
	"fmt"

	"github.com/CreativeUnicorns/viewerprefs"
)

// checkArgs rejects empty identifiers before they reach a backend.
func checkArgs(viewerID, key string) error {
	if viewerID == "" {
		return fmt.Errorf("%w: empty viewer id", viewerprefs.ErrInvalidInput)
	}
	if key == "" {
		return viewerprefs.ErrInvalidKey
	}
	return nil
}
