package viewerprefs

import "sort"

// Constants for the semantic types a stored preference is coerced to.
const (
	// StringType represents a preference value that is a string.
	StringType string = "string"
	// BoolType represents a preference value that is a boolean.
	BoolType string = "bool"
	// NumberType represents a preference value that is a float64.
	NumberType string = "number"
)

// Storage keys.
const (
	KeyDefaultPlayback         = "defaultPlaybackMode"
	KeyShortVideoFilterEnabled = "shortVideoFilterEnabled"
	KeyShortVideoFilterMinutes = "shortVideoFilterMinutes"
	KeyDarkMode                = "darkMode"
)

// StreamTypeCookie mirrors the default playback mode for server-rendered pages.
const StreamTypeCookie = "StreamType"

// Defaults.
const (
	DefaultPlaybackMode        = "1"
	DefaultShortVideoMinutes   = 4.0
	DefaultCookieLifetimeDays  = 3650
	DefaultViewerID            = "default"
	durationFilterCacheKeyBase = "durationFilter:"
)

// PreferenceDefinition describes one stored preference: its key, its semantic
// type and the value returned when nothing usable is stored.
type PreferenceDefinition struct {
	Key          string      `json:"key"`
	Type         string      `json:"type"`
	DefaultValue interface{} `json:"default_value"`
	Category     string      `json:"category,omitempty"`
}

var definitions = map[string]PreferenceDefinition{
	KeyDefaultPlayback:         {Key: KeyDefaultPlayback, Type: StringType, DefaultValue: DefaultPlaybackMode, Category: "playback"},
	KeyShortVideoFilterEnabled: {Key: KeyShortVideoFilterEnabled, Type: BoolType, DefaultValue: false, Category: "playback"},
	KeyShortVideoFilterMinutes: {Key: KeyShortVideoFilterMinutes, Type: NumberType, DefaultValue: DefaultShortVideoMinutes, Category: "playback"},
	KeyDarkMode:                {Key: KeyDarkMode, Type: BoolType, DefaultValue: false, Category: "appearance"},
}

// LookupDefinition returns the definition registered for key.
func LookupDefinition(key string) (PreferenceDefinition, bool) {
	def, ok := definitions[key]
	return def, ok
}

// Definitions returns every known preference definition ordered by key.
func Definitions() []PreferenceDefinition {
	defs := make([]PreferenceDefinition, 0, len(definitions))
	for _, def := range definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Key < defs[j].Key })
	return defs
}
