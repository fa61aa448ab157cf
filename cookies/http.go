package cookies

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

var errNilCookie = errors.New("cookies: nil cookie")

// HTTPStore reads cookies from an incoming request and writes Set-Cookie
// headers to its response. Cookies set while handling the request are visible
// to later reads in the same request.
type HTTPStore struct {
	mu  sync.Mutex
	w   http.ResponseWriter
	h   header
	now func() time.Time
}

// NewHTTPStore binds a store to one request/response pair.
func NewHTTPStore(w http.ResponseWriter, r *http.Request) *HTTPStore {
	var h header
	for _, c := range r.Cookies() {
		h = h.set(c.Name, c.Value)
	}
	return &HTTPStore{w: w, h: h, now: time.Now}
}

func (s *HTTPStore) CookieHeader(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.String(), nil
}

func (s *HTTPStore) SetCookie(_ context.Context, c *http.Cookie) error {
	if c == nil {
		return errNilCookie
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	http.SetCookie(s.w, c)
	s.h = s.h.apply(c, s.now())
	return nil
}
