package cookies

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// MemoryStore keeps a Cookie header in memory. Read and write failures can be
// injected for tests.
type MemoryStore struct {
	mu       sync.Mutex
	h        header
	readErr  error
	writeErr error
}

// NewMemoryStore seeds the store with a raw Cookie header such as "a=1; b=2".
func NewMemoryStore(raw string) *MemoryStore {
	return &MemoryStore{h: parseHeader(raw)}
}

// FailReads makes CookieHeader return err. A nil err clears it.
func (m *MemoryStore) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes SetCookie return err. A nil err clears it.
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *MemoryStore) CookieHeader(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	return m.h.String(), nil
}

func (m *MemoryStore) SetCookie(_ context.Context, c *http.Cookie) error {
	if c == nil {
		return errNilCookie
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.h = m.h.apply(c, time.Now())
	return nil
}
