package viewerprefs

import (
	"math"

	"github.com/spf13/cast"
)

// Stored values come back from JSON as string, float64, bool or nil, or as a raw
// string for legacy entries. The coerce helpers bring them to the declared type;
// ok is false when the value is nil or cannot be converted.

func coerceString(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

func coerceBool(v interface{}) (bool, bool) {
	if v == nil {
		return false, false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func coerceNumber(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Coerce converts v to the Go type backing the definition's semantic type.
// It is used by the HTTP API to accept loosely typed JSON.
func Coerce(def PreferenceDefinition, v interface{}) (interface{}, error) {
	var (
		out interface{}
		ok  bool
	)
	switch def.Type {
	case StringType:
		out, ok = coerceString(v)
	case BoolType:
		out, ok = coerceBool(v)
	case NumberType:
		out, ok = coerceNumber(v)
	default:
		return nil, ErrInvalidKey
	}
	if !ok {
		return nil, ErrInvalidValue
	}
	return out, nil
}
