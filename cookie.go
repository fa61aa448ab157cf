package viewerprefs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// setCookie writes name=value with root path and an expiry days from now.
// The value is percent-encoded. Failures are logged.
func (s *Settings) setCookie(ctx context.Context, name, value string, days int) {
	if s.cookies == nil {
		s.logger().Warn("No cookie store, dropping cookie", "viewer_id", s.viewerID, "cookie", name)
		return
	}

	c := &http.Cookie{
		Name:     name,
		Value:    url.PathEscape(value),
		Path:     "/",
		Expires:  s.manager.config.now().Add(time.Duration(days) * 24 * time.Hour).UTC(),
		SameSite: http.SameSiteLaxMode,
	}
	if err := s.cookies.SetCookie(ctx, c); err != nil {
		s.logger().Error("Failed to set cookie", "op", "setCookie", "viewer_id", s.viewerID, "cookie", name, "error", err)
	}
}

// expireCookie removes name from the cookie store.
func (s *Settings) expireCookie(ctx context.Context, name string) {
	if s.cookies == nil {
		return
	}
	c := &http.Cookie{
		Name:    name,
		Path:    "/",
		Expires: time.Unix(0, 0).UTC(),
		MaxAge:  -1,
	}
	if err := s.cookies.SetCookie(ctx, c); err != nil {
		s.logger().Error("Failed to expire cookie", "op", "expireCookie", "viewer_id", s.viewerID, "cookie", name, "error", err)
	}
}

// getCookie returns the percent-decoded value of name. found is false when the
// cookie is absent or cannot be read (failures are logged).
func (s *Settings) getCookie(ctx context.Context, name string) (value string, found bool) {
	if s.cookies == nil {
		return "", false
	}

	header, err := s.cookies.CookieHeader(ctx)
	if err != nil {
		s.logger().Error("Failed to read cookies", "op", "getCookie", "viewer_id", s.viewerID, "cookie", name, "error", err)
		return "", false
	}

	value, found, err = lookupCookie(header, name)
	if err != nil {
		s.logger().Error("Failed to parse cookie", "op", "getCookie", "viewer_id", s.viewerID, "cookie", name, "error", err)
		return "", false
	}
	return value, found
}

// lookupCookie scans a "a=1; b=2" header for name.
func lookupCookie(header, name string) (string, bool, error) {
	prefix := name + "="
	for _, pair := range strings.Split(header, ";") {
		pair = strings.TrimSpace(pair)
		if !strings.HasPrefix(pair, prefix) {
			continue
		}
		value, err := url.PathUnescape(strings.TrimPrefix(pair, prefix))
		if err != nil {
			return "", false, fmt.Errorf("%w: %s: %v", ErrCookieParse, name, err)
		}
		return value, true, nil
	}
	return "", false, nil
}
