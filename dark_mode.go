package viewerprefs

import "context"

// SaveDarkMode stores the dark mode flag.
func (s *Settings) SaveDarkMode(ctx context.Context, isDark bool) {
	defer s.recoverTo("SaveDarkMode", nil)
	s.safeSet(ctx, KeyDarkMode, isDark)
}

// LoadDarkMode returns the stored flag, false when absent or unreadable.
func (s *Settings) LoadDarkMode(ctx context.Context) (isDark bool, defaulted bool) {
	defer s.recoverTo("LoadDarkMode", func() {
		isDark, defaulted = false, true
	})

	v, found := s.safeGet(ctx, KeyDarkMode)
	if !found {
		return false, true
	}
	b, ok := coerceBool(v)
	if !ok {
		return false, true
	}
	return b, false
}
