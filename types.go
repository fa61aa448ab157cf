// Package viewerprefs defines the core types used by the viewer preferences manager.
package viewerprefs

import (
	"time"
)

// ShortVideoFilter is the persisted short-video filter setting.
// Videos shorter than Minutes are skipped during autoplay when Enabled is set.
type ShortVideoFilter struct {
	Enabled bool    `json:"enabled"`
	Minutes float64 `json:"minutes"`
}

// DurationFilter is the projection of a ShortVideoFilter published to the
// FilterState (and the cache mirror) on every save and every load.
type DurationFilter struct {
	ViewerID   string  `json:"viewer_id"`
	Enabled    bool    `json:"enabled"`
	Minutes    float64 `json:"minutes"`
	MaxSeconds float64 `json:"max_seconds"`
}

// newDurationFilter derives the published projection from a filter setting.
func newDurationFilter(viewerID string, f ShortVideoFilter) DurationFilter {
	return DurationFilter{
		ViewerID:   viewerID,
		Enabled:    f.Enabled,
		Minutes:    f.Minutes,
		MaxSeconds: f.Minutes * 60,
	}
}

// Snapshot holds every preference of one viewer as loaded at a point in time.
type Snapshot struct {
	DefaultPlayback  string           `json:"default_playback"`
	ShortVideoFilter ShortVideoFilter `json:"short_video_filter"`
	DarkMode         bool             `json:"dark_mode"`
}

// Config holds the internal configuration for a Manager instance.
// It is populated by applying functional Options when a Manager is created with New().
type Config struct {
	// storage is the persistent key/value backend (memory, SQLite, PostgreSQL).
	storage Storage
	// cache optionally mirrors published duration filters for other processes.
	cache Cache
	// logger receives every swallowed error.
	logger Logger
	// encryption optionally encrypts stored values at rest.
	encryption EncryptionManager
	// filters is the observable slot duration filters are published to.
	filters *FilterState
	// now returns the current time; cookie expiry is computed from it.
	now func() time.Time
	// cookieDays is the lifetime of the StreamType cookie.
	cookieDays int
}

// Option defines the signature for a functional option that configures a Manager instance.
type Option func(*Config)

// WithStorage sets the Storage backend. Without one every read falls back to
// defaults and every write is dropped (and logged).
func WithStorage(s Storage) Option {
	return func(c *Config) {
		c.storage = s
	}
}

// WithCache mirrors every published DurationFilter into the cache under
// "durationFilter:<viewerID>". This option is optional.
func WithCache(cache Cache) Option {
	return func(c *Config) {
		c.cache = cache
	}
}

// WithLogger sets the Logger implementation for the Manager.
// If not set, NewDefaultLogger is used.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// WithEncryption encrypts stored values at rest.
func WithEncryption(e EncryptionManager) Option {
	return func(c *Config) {
		c.encryption = e
	}
}

// WithFilterState publishes duration filters into fs instead of a private FilterState.
// Use it to share one slot between several Managers.
func WithFilterState(fs *FilterState) Option {
	return func(c *Config) {
		if fs != nil {
			c.filters = fs
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCookieLifetime sets the lifetime in days of the StreamType cookie.
func WithCookieLifetime(days int) Option {
	return func(c *Config) {
		if days > 0 {
			c.cookieDays = days
		}
	}
}
