package viewerprefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// safeSet JSON-encodes value and writes it under key. Any failure is logged and
// the write is dropped.
func (s *Settings) safeSet(ctx context.Context, key string, value interface{}) {
	if err := s.set(ctx, key, value); err != nil {
		s.logger().Error("Failed to store preference", "op", "safeSet", "viewer_id", s.viewerID, "key", key, "error", err)
	}
}

func (s *Settings) set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return ErrInvalidKey
	}
	if def, ok := LookupDefinition(key); ok {
		if err := validateValue(value, def); err != nil {
			return err
		}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	raw := string(data)

	cfg := s.manager.config
	if cfg.encryption != nil {
		if raw, err = cfg.encryption.Encrypt(raw); err != nil {
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
	}

	if cfg.storage == nil {
		return ErrStorageUnavailable
	}
	return cfg.storage.Set(ctx, s.viewerID, key, raw)
}

// safeGet reads key. found is false when the key is absent or the read failed
// (failures are logged). Present values go through a two-stage decode: JSON
// first, then the raw stored string itself for entries written before values
// were JSON-encoded.
func (s *Settings) safeGet(ctx context.Context, key string) (value interface{}, found bool) {
	raw, err := s.getRaw(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger().Error("Failed to read preference", "op", "safeGet", "viewer_id", s.viewerID, "key", key, "error", err)
		}
		return nil, false
	}
	return decodeStored(raw), true
}

func (s *Settings) getRaw(ctx context.Context, key string) (string, error) {
	cfg := s.manager.config
	if cfg.storage == nil {
		return "", ErrStorageUnavailable
	}

	var (
		raw string
		err error
	)
	if s.prefetched != nil {
		var ok bool
		if raw, ok = s.prefetched[key]; !ok {
			return "", ErrNotFound
		}
	} else if raw, err = cfg.storage.Get(ctx, s.viewerID, key); err != nil {
		return "", err
	}

	if cfg.encryption != nil {
		plain, err := cfg.encryption.Decrypt(raw)
		switch {
		case err == nil:
			raw = plain
		case errors.Is(err, ErrNotEncrypted):
			// Plaintext written before encryption was enabled.
		default:
			return "", err
		}
	}
	return raw, nil
}

func decodeStored(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
