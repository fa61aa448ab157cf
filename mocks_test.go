package viewerprefs

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// MockStorage implements the Storage interface for testing.
type MockStorage struct {
	mu         sync.RWMutex
	data       map[string]map[string]string
	closed     bool
	failErr    error // returned by every call when set
	panics     bool  // every call panics when set
	getHits    int
	getAllHits int
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		data: make(map[string]map[string]string),
	}
}

// FailWith makes every subsequent call return err.
func (m *MockStorage) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Panic makes every subsequent call panic.
func (m *MockStorage) Panic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics = true
}

func (m *MockStorage) check() error {
	if m.panics {
		panic("mockstorage: forced panic")
	}
	if m.closed {
		return ErrStorageUnavailable
	}
	return m.failErr
}

// Raw writes value without any encoding, the way a legacy client would have.
func (m *MockStorage) Raw(viewerID, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[viewerID]; !ok {
		m.data[viewerID] = make(map[string]string)
	}
	m.data[viewerID][key] = value
}

// Peek returns the stored string without decoding.
func (m *MockStorage) Peek(viewerID, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[viewerID][key]
	return v, ok
}

func (m *MockStorage) Get(ctx context.Context, viewerID, key string) (string, error) {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(); err != nil {
		return "", err
	}
	m.getHits++
	if v, ok := m.data[viewerID][key]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (m *MockStorage) Set(ctx context.Context, viewerID, key, value string) error {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(); err != nil {
		return err
	}
	if _, ok := m.data[viewerID]; !ok {
		m.data[viewerID] = make(map[string]string)
	}
	m.data[viewerID][key] = value
	return nil
}

func (m *MockStorage) Delete(ctx context.Context, viewerID, key string) error {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(); err != nil {
		return err
	}
	if _, ok := m.data[viewerID][key]; !ok {
		return ErrNotFound
	}
	delete(m.data[viewerID], key)
	return nil
}

func (m *MockStorage) GetAll(ctx context.Context, viewerID string) (map[string]string, error) {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(); err != nil {
		return nil, err
	}
	m.getAllHits++
	out := make(map[string]string, len(m.data[viewerID]))
	for k, v := range m.data[viewerID] {
		out[k] = v
	}
	return out, nil
}

func (m *MockStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// MockCache implements the Cache interface for testing.
type MockCache struct {
	mu      sync.RWMutex
	data    map[string]interface{}
	failErr error
	closed  bool
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]interface{}),
	}
}

func (m *MockCache) Get(_ context.Context, key string) (interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *MockCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// MockCookieStore keeps cookies in insertion order and renders them as a Cookie header.
type MockCookieStore struct {
	mu        sync.Mutex
	names     []string
	values    map[string]string
	set       []*http.Cookie
	readErr   error
	writeErr  error
	rawHeader string // when non-empty, returned verbatim by CookieHeader
}

func NewMockCookieStore() *MockCookieStore {
	return &MockCookieStore{values: make(map[string]string)}
}

func (m *MockCookieStore) CookieHeader(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	if m.rawHeader != "" {
		return m.rawHeader, nil
	}
	pairs := make([]string, 0, len(m.names))
	for _, name := range m.names {
		pairs = append(pairs, name+"="+m.values[name])
	}
	return strings.Join(pairs, "; "), nil
}

func (m *MockCookieStore) SetCookie(_ context.Context, c *http.Cookie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.set = append(m.set, c)
	if c.MaxAge < 0 {
		delete(m.values, c.Name)
		for i, name := range m.names {
			if name == c.Name {
				m.names = append(m.names[:i], m.names[i+1:]...)
				break
			}
		}
		return nil
	}
	if _, ok := m.values[c.Name]; !ok {
		m.names = append(m.names, c.Name)
	}
	m.values[c.Name] = c.Value
	return nil
}

// Last returns the most recent cookie written under name.
func (m *MockCookieStore) Last(name string) *http.Cookie {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.set) - 1; i >= 0; i-- {
		if m.set[i].Name == name {
			return m.set[i]
		}
	}
	return nil
}

// LogEntry is a single recorded log call.
type LogEntry struct {
	Level string
	Msg   string
	Args  []any
}

// MockLogger records log calls.
type MockLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
	level   LogLevel
}

func (l *MockLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *MockLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args) }
func (l *MockLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args) }
func (l *MockLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args) }
func (l *MockLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args) }
func (l *MockLogger) SetLevel(level LogLevel)       { l.level = level }

// Errors returns the recorded error-level entries.
func (l *MockLogger) Errors() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEntry
	for _, e := range l.Entries {
		if e.Level == "ERROR" {
			out = append(out, e)
		}
	}
	return out
}

// HasError reports whether an error entry was logged for op.
func (l *MockLogger) HasError(op string) bool {
	for _, e := range l.Errors() {
		for i := 0; i+1 < len(e.Args); i += 2 {
			if e.Args[i] == "op" && fmt.Sprint(e.Args[i+1]) == op {
				return true
			}
		}
	}
	return false
}
