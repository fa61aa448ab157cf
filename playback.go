package viewerprefs

import "context"

// SaveDefaultPlayback stores mode in the StreamType cookie and in storage.
func (s *Settings) SaveDefaultPlayback(ctx context.Context, mode string) {
	defer s.recoverTo("SaveDefaultPlayback", nil)

	s.setCookie(ctx, StreamTypeCookie, mode, s.manager.config.cookieDays)
	s.safeSet(ctx, KeyDefaultPlayback, mode)
}

// LoadDefaultPlayback returns the stored playback mode. Storage wins over the
// StreamType cookie; a mode found only in the cookie is copied into storage.
// defaulted is true when neither holds a non-empty mode and DefaultPlaybackMode
// is returned.
func (s *Settings) LoadDefaultPlayback(ctx context.Context) (mode string, defaulted bool) {
	defer s.recoverTo("LoadDefaultPlayback", func() {
		mode, defaulted = DefaultPlaybackMode, true
	})

	if v, found := s.safeGet(ctx, KeyDefaultPlayback); found {
		if stored, ok := coerceString(v); ok && stored != "" {
			return stored, false
		}
	}

	if cookieMode, found := s.getCookie(ctx, StreamTypeCookie); found && cookieMode != "" {
		s.logger().Info("Migrating playback mode from cookie", "viewer_id", s.viewerID, "mode", cookieMode)
		s.safeSet(ctx, KeyDefaultPlayback, cookieMode)
		return cookieMode, false
	}

	return DefaultPlaybackMode, true
}
