package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/CreativeUnicorns/viewerprefs"
)

// MemoryStorage implements viewerprefs.Storage with an in-memory map.
// Like a browser's local storage it can enforce a per-viewer byte quota.
type MemoryStorage struct {
	mu     sync.RWMutex
	items  map[string]map[string]string // viewerID -> key -> value
	quota  int
	closed bool
}

// MemoryOption configures a MemoryStorage.
type MemoryOption func(*MemoryStorage)

// WithQuota limits the bytes (keys plus values) stored per viewer.
// Writes that would exceed it fail with viewerprefs.ErrQuotaExceeded.
func WithQuota(bytes int) MemoryOption {
	return func(s *MemoryStorage) {
		s.quota = bytes
	}
}

// NewMemoryStorage creates a new instance of MemoryStorage.
func NewMemoryStorage(opts ...MemoryOption) *MemoryStorage {
	s := &MemoryStorage{
		items: make(map[string]map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns viewerprefs.ErrNotFound if the key does not exist.
func (s *MemoryStorage) Get(_ context.Context, viewerID, key string) (string, error) {
	if err := checkArgs(viewerID, key); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", viewerprefs.ErrStorageUnavailable
	}
	value, ok := s.items[viewerID][key]
	if !ok {
		return "", viewerprefs.ErrNotFound
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStorage) Set(_ context.Context, viewerID, key, value string) error {
	if err := checkArgs(viewerID, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return viewerprefs.ErrStorageUnavailable
	}

	viewerItems, ok := s.items[viewerID]
	if !ok {
		viewerItems = make(map[string]string)
		s.items[viewerID] = viewerItems
	}

	if s.quota > 0 {
		used := usage(viewerItems)
		if old, exists := viewerItems[key]; exists {
			used -= len(key) + len(old)
		}
		if used+len(key)+len(value) > s.quota {
			return fmt.Errorf("%w: %d of %d bytes used", viewerprefs.ErrQuotaExceeded, used, s.quota)
		}
	}

	viewerItems[key] = value
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *MemoryStorage) Delete(_ context.Context, viewerID, key string) error {
	if err := checkArgs(viewerID, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return viewerprefs.ErrStorageUnavailable
	}

	viewerItems, ok := s.items[viewerID]
	if !ok {
		return nil
	}
	delete(viewerItems, key)
	if len(viewerItems) == 0 {
		delete(s.items, viewerID)
	}
	return nil
}

// GetAll returns a copy of every key stored for the viewer.
func (s *MemoryStorage) GetAll(_ context.Context, viewerID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, viewerprefs.ErrStorageUnavailable
	}

	out := make(map[string]string, len(s.items[viewerID]))
	for k, v := range s.items[viewerID] {
		out[k] = v
	}
	return out, nil
}

// Close makes every later call fail with viewerprefs.ErrStorageUnavailable.
// It is idempotent.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func usage(items map[string]string) int {
	n := 0
	for k, v := range items {
		n += len(k) + len(v)
	}
	return n
}
