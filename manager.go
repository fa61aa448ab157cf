// manager.go
package viewerprefs

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Manager owns the shared collaborators (storage, cache, encryption, logger and
// filter state) and hands out per-viewer Settings. It is safe for concurrent use.
type Manager struct {
	config *Config
}

func New(opts ...Option) *Manager {
	cfg := &Config{
		now:        time.Now,
		cookieDays: DefaultCookieLifetimeDays,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = NewDefaultLogger()
	}
	if cfg.filters == nil {
		cfg.filters = NewFilterState()
	}

	return &Manager{
		config: cfg,
	}
}

// For returns the preferences of one viewer. cookies may be nil, in which case
// cookie reads find nothing and cookie writes are dropped.
func (m *Manager) For(viewerID string, cookies CookieStore) *Settings {
	if viewerID == "" {
		viewerID = DefaultViewerID
	}
	return &Settings{
		manager:  m,
		viewerID: viewerID,
		cookies:  cookies,
	}
}

// Filters returns the FilterState duration filters are published to.
func (m *Manager) Filters() *FilterState {
	return m.config.filters
}

// Logger returns the logger the Manager reports swallowed errors to.
func (m *Manager) Logger() Logger {
	return m.config.logger
}

// Close releases the storage and cache backends.
func (m *Manager) Close() error {
	var errs []error
	if m.config.storage != nil {
		errs = append(errs, m.config.storage.Close())
	}
	if m.config.cache != nil {
		errs = append(errs, m.config.cache.Close())
	}
	return errors.Join(errs...)
}

// publishFilter hands the projection to the filter state and, when configured, the cache.
func (m *Manager) publishFilter(ctx context.Context, f DurationFilter) {
	m.config.filters.Publish(f)
	m.config.logger.Debug("Published duration filter",
		"viewer_id", f.ViewerID,
		"enabled", f.Enabled,
		"minutes", f.Minutes,
		"max_seconds", f.MaxSeconds,
	)

	if m.config.cache != nil {
		m.setToCache(ctx, f)
	}
}

func (m *Manager) setToCache(ctx context.Context, f DurationFilter) {
	data, err := json.Marshal(f)
	if err != nil {
		m.config.logger.Error("Failed to marshal duration filter for cache", "error", err)
		return
	}

	if err := m.config.cache.Set(ctx, DurationFilterCacheKey(f.ViewerID), data, 0); err != nil {
		m.config.logger.Error("Failed to cache duration filter", "viewer_id", f.ViewerID, "error", err)
	}
}

// DurationFilterCacheKey is the cache key a viewer's duration filter is mirrored under.
func DurationFilterCacheKey(viewerID string) string {
	return durationFilterCacheKeyBase + viewerID
}
