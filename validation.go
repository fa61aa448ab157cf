// validation.go
package viewerprefs

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

// validateValue checks a value against its definition before it is written.
func validateValue(value interface{}, def PreferenceDefinition) error {
	switch def.Type {
	case StringType:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: expected string", ErrInvalidValue)
		}
	case BoolType:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: expected bool", ErrInvalidValue)
		}
	case NumberType:
		f, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%w: expected number", ErrInvalidValue)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: number is not finite", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidValue, def.Type)
	}
	return nil
}

// ParseHTTPURL parses raw, with surrounding whitespace trimmed, as an absolute
// http or https URL with a host. The returned error wraps ErrURLParse.
func ParseHTTPURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrURLParse, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrURLParse, raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrURLParse, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrURLParse, raw)
	}
	return u, nil
}

// IsValidURL reports whether raw is an absolute http or https URL.
func IsValidURL(raw string) bool {
	_, err := ParseHTTPURL(raw)
	return err == nil
}
