package viewerprefs

import (
	"context"
	"errors"
)

// Settings is the preference surface of a single viewer. Every method is total:
// failures are logged through the Manager's logger and replaced by defaults.
// The load methods also report whether the returned value is a fallback.
type Settings struct {
	manager  *Manager
	viewerID string
	cookies  CookieStore

	// prefetched, when set, answers reads instead of Storage.Get.
	prefetched map[string]string
}

// ViewerID returns the viewer the settings belong to.
func (s *Settings) ViewerID() string {
	return s.viewerID
}

func (s *Settings) logger() Logger {
	return s.manager.config.logger
}

// recoverTo is deferred by every exported operation. A panicking backend is
// logged like any other failure and fallback restores the operation's default.
func (s *Settings) recoverTo(op string, fallback func()) {
	if r := recover(); r != nil {
		s.logger().Error("Recovered from panic", "op", op, "viewer_id", s.viewerID, "panic", r)
		if fallback != nil {
			fallback()
		}
	}
}

// Snapshot loads every preference with a single Storage.GetAll. Loading the
// short-video filter republishes it.
func (s *Settings) Snapshot(ctx context.Context) Snapshot {
	view := s.prefetch(ctx)
	mode, _ := view.LoadDefaultPlayback(ctx)
	filter, _ := view.LoadShortVideoFilter(ctx)
	dark, _ := view.LoadDarkMode(ctx)
	return Snapshot{
		DefaultPlayback:  mode,
		ShortVideoFilter: filter,
		DarkMode:         dark,
	}
}

// prefetch returns a copy of s whose reads are served from one GetAll.
// If GetAll fails the failure is logged and s itself is returned, so reads
// fall back to per-key lookups.
func (s *Settings) prefetch(ctx context.Context) (view *Settings) {
	view = s
	defer s.recoverTo("Snapshot", nil)

	store := s.manager.config.storage
	if store == nil {
		return s
	}
	all, err := store.GetAll(ctx, s.viewerID)
	if err != nil {
		s.logger().Error("Failed to read preferences", "op", "Snapshot", "viewer_id", s.viewerID, "error", err)
		return s
	}
	cp := *s
	cp.prefetched = all
	return &cp
}

// Reset deletes every stored preference and expires the StreamType cookie,
// so subsequent loads return defaults.
func (s *Settings) Reset(ctx context.Context) {
	defer s.recoverTo("Reset", nil)

	store := s.manager.config.storage
	if store == nil {
		s.logger().Error("Failed to reset preferences", "viewer_id", s.viewerID, "error", ErrStorageUnavailable)
	} else {
		for _, def := range Definitions() {
			if err := store.Delete(ctx, s.viewerID, def.Key); err != nil && !errors.Is(err, ErrNotFound) {
				s.logger().Error("Failed to delete preference", "op", "Reset", "viewer_id", s.viewerID, "key", def.Key, "error", err)
			}
		}
	}
	s.expireCookie(ctx, StreamTypeCookie)
}
