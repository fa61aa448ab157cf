// Package cache provides viewerprefs.Cache backends (in-memory and Redis) used to
// mirror published duration filters so other processes can read them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CreativeUnicorns/viewerprefs"
)

// LoadDurationFilter reads the duration filter a Manager mirrored for viewerID.
// It returns viewerprefs.ErrNotFound when nothing was published yet.
func LoadDurationFilter(ctx context.Context, c viewerprefs.Cache, viewerID string) (viewerprefs.DurationFilter, error) {
	var f viewerprefs.DurationFilter

	v, err := c.Get(ctx, viewerprefs.DurationFilterCacheKey(viewerID))
	if err != nil {
		return f, err
	}

	var data []byte
	switch val := v.(type) {
	case []byte:
		data = val
	case string:
		data = []byte(val)
	case viewerprefs.DurationFilter:
		return val, nil
	default:
		return f, fmt.Errorf("%w: unexpected cached type %T", viewerprefs.ErrSerialization, v)
	}

	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("%w: %v", viewerprefs.ErrSerialization, err)
	}
	return f, nil
}
