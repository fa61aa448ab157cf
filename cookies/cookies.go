// Package cookies provides viewerprefs.CookieStore implementations: one bound
// to an HTTP request/response pair, one backed by a client-side cookie jar and
// an in-memory one for tests and tools.
package cookies

import (
	"net/http"
	"strings"
	"time"
)

// pair is one name=value entry of a Cookie header.
type pair struct {
	name  string
	value string
}

// header is an ordered Cookie header. Later writes to an existing name
// replace it in place.
type header []pair

func parseHeader(raw string) header {
	var h header
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		h = append(h, pair{name: strings.TrimSpace(name), value: value})
	}
	return h
}

func (h header) set(name, value string) header {
	for i := range h {
		if h[i].name == name {
			h[i].value = value
			return h
		}
	}
	return append(h, pair{name: name, value: value})
}

func (h header) remove(name string) header {
	out := h[:0]
	for _, p := range h {
		if p.name != name {
			out = append(out, p)
		}
	}
	return out
}

// apply records c the way a browser would: expired cookies are removed.
func (h header) apply(c *http.Cookie, now time.Time) header {
	if isExpired(c, now) {
		return h.remove(c.Name)
	}
	return h.set(c.Name, c.Value)
}

func (h header) String() string {
	parts := make([]string, 0, len(h))
	for _, p := range h {
		parts = append(parts, p.name+"="+p.value)
	}
	return strings.Join(parts, "; ")
}

func isExpired(c *http.Cookie, now time.Time) bool {
	if c.MaxAge < 0 {
		return true
	}
	return !c.Expires.IsZero() && !c.Expires.After(now)
}
