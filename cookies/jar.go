package cookies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// JarStore is a client-side cookie store scoped to one site URL. It can be
// persisted to a JSON file between runs.
type JarStore struct {
	mu      sync.Mutex
	jar     *cookiejar.Jar
	site    *url.URL
	records map[string]record
	now     func() time.Time
}

// record is the persisted form of one cookie.
type record struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// NewJarStore creates an empty jar for site, e.g. "http://localhost/".
func NewJarStore(site string) (*JarStore, error) {
	u, err := url.Parse(site)
	if err != nil {
		return nil, fmt.Errorf("cookies: invalid site %q: %w", site, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("cookies: site %q has no host", site)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookies: failed to create jar: %w", err)
	}

	return &JarStore{
		jar:     jar,
		site:    u,
		records: make(map[string]record),
		now:     time.Now,
	}, nil
}

// CookieHeader returns the cookies the jar would send to the site.
func (s *JarStore) CookieHeader(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.jar.Cookies(s.site)
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; "), nil
}

func (s *JarStore) SetCookie(_ context.Context, c *http.Cookie) error {
	if c == nil {
		return errNilCookie
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jar.SetCookies(s.site, []*http.Cookie{c})
	if isExpired(c, s.now()) {
		delete(s.records, c.Name)
		return nil
	}
	s.records[c.Name] = record{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires}
	return nil
}

// Load replays cookies saved by Save. A missing file is not an error.
func (s *JarStore) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cookies: failed to read %s: %w", path, err)
	}

	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return fmt.Errorf("cookies: failed to decode %s: %w", path, err)
	}

	ctx := context.Background()
	for _, r := range recs {
		c := &http.Cookie{Name: r.Name, Value: r.Value, Path: r.Path, Expires: r.Expires}
		if err := s.SetCookie(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the unexpired cookies set through this store to path.
func (s *JarStore) Save(path string) error {
	s.mu.Lock()
	now := s.now()
	recs := make([]record, 0, len(s.records))
	for _, r := range s.records {
		if !r.Expires.IsZero() && !r.Expires.After(now) {
			continue
		}
		recs = append(recs, r)
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("cookies: failed to encode jar: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("cookies: failed to write %s: %w", path, err)
	}
	return nil
}
