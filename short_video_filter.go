package viewerprefs

import "context"

// DefaultShortVideoFilter is returned when nothing usable is stored.
var DefaultShortVideoFilter = ShortVideoFilter{Enabled: false, Minutes: DefaultShortVideoMinutes}

// SaveShortVideoFilter stores both fields under their own keys and publishes
// the derived DurationFilter. Non-finite minutes are rejected and nothing is
// stored or published.
func (s *Settings) SaveShortVideoFilter(ctx context.Context, enabled bool, minutes float64) {
	defer s.recoverTo("SaveShortVideoFilter", nil)

	def, _ := LookupDefinition(KeyShortVideoFilterMinutes)
	if err := validateValue(minutes, def); err != nil {
		s.logger().Error("Failed to save short video filter", "op", "SaveShortVideoFilter", "viewer_id", s.viewerID, "minutes", minutes, "error", err)
		return
	}

	s.safeSet(ctx, KeyShortVideoFilterEnabled, enabled)
	s.safeSet(ctx, KeyShortVideoFilterMinutes, minutes)

	f := ShortVideoFilter{Enabled: enabled, Minutes: minutes}
	s.manager.publishFilter(ctx, newDurationFilter(s.viewerID, f))
	s.logger().Info("Saved short video filter", "viewer_id", s.viewerID, "enabled", enabled, "minutes", minutes)
}

// LoadShortVideoFilter reads both fields. Each one falls back to its own default
// independently, so a stored Minutes survives a missing Enabled and vice versa.
// The result is republished as a DurationFilter. defaulted is true when either
// field fell back.
func (s *Settings) LoadShortVideoFilter(ctx context.Context) (filter ShortVideoFilter, defaulted bool) {
	defer s.recoverTo("LoadShortVideoFilter", func() {
		filter, defaulted = DefaultShortVideoFilter, true
	})

	filter = DefaultShortVideoFilter

	enabledOK, minutesOK := false, false
	if v, found := s.safeGet(ctx, KeyShortVideoFilterEnabled); found {
		filter.Enabled, enabledOK = coerceBool(v)
	}
	if v, found := s.safeGet(ctx, KeyShortVideoFilterMinutes); found {
		var minutes float64
		if minutes, minutesOK = coerceNumber(v); minutesOK {
			filter.Minutes = minutes
		}
	}

	s.manager.publishFilter(ctx, newDurationFilter(s.viewerID, filter))
	return filter, !enabledOK || !minutesOK
}
