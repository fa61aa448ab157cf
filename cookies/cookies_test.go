package cookies_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/viewerprefs"
	"github.com/CreativeUnicorns/viewerprefs/cookies"
	"github.com/CreativeUnicorns/viewerprefs/storage"
)

var (
	_ viewerprefs.CookieStore = (*cookies.HTTPStore)(nil)
	_ viewerprefs.CookieStore = (*cookies.JarStore)(nil)
	_ viewerprefs.CookieStore = (*cookies.MemoryStore)(nil)
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := cookies.NewMemoryStore("a=1; StreamType=2")

	h, err := s.CookieHeader(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a=1; StreamType=2", h)

	require.NoError(t, s.SetCookie(ctx, &http.Cookie{Name: "StreamType", Value: "3"}))
	require.NoError(t, s.SetCookie(ctx, &http.Cookie{Name: "b", Value: "x%20y"}))
	h, _ = s.CookieHeader(ctx)
	assert.Equal(t, "a=1; StreamType=3; b=x%20y", h)

	require.NoError(t, s.SetCookie(ctx, &http.Cookie{Name: "a", MaxAge: -1}))
	h, _ = s.CookieHeader(ctx)
	assert.Equal(t, "StreamType=3; b=x%20y", h)

	assert.NotPanics(t, func() {
		assert.Error(t, s.SetCookie(ctx, nil))
	})
	h, _ = s.CookieHeader(ctx)
	assert.Equal(t, "StreamType=3; b=x%20y", h)

	boom := errors.New("boom")
	s.FailReads(boom)
	s.FailWrites(boom)
	_, err = s.CookieHeader(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.SetCookie(ctx, &http.Cookie{Name: "c", Value: "1"}), boom)
}

func TestHTTPStore(t *testing.T) {
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "StreamType", Value: "2"})
	rec := httptest.NewRecorder()

	s := cookies.NewHTTPStore(rec, req)
	h, err := s.CookieHeader(ctx)
	require.NoError(t, err)
	assert.Equal(t, "StreamType=2", h)

	require.NoError(t, s.SetCookie(ctx, &http.Cookie{Name: "StreamType", Value: "4", Path: "/"}))
	h, _ = s.CookieHeader(ctx)
	assert.Equal(t, "StreamType=4", h)

	resp := rec.Result()
	defer resp.Body.Close()
	require.Len(t, resp.Cookies(), 1)
	assert.Equal(t, "4", resp.Cookies()[0].Value)
	assert.Equal(t, "/", resp.Cookies()[0].Path)

	assert.Error(t, s.SetCookie(ctx, nil))
}

func TestHTTPStore_ExpiredCookieHidden(t *testing.T) {
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "StreamType", Value: "2"})
	s := cookies.NewHTTPStore(httptest.NewRecorder(), req)

	require.NoError(t, s.SetCookie(ctx, &http.Cookie{Name: "StreamType", MaxAge: -1}))
	h, _ := s.CookieHeader(ctx)
	assert.Empty(t, h)
}

func TestJarStore_PersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cookies.json")

	jar, err := cookies.NewJarStore("http://localhost")
	require.NoError(t, err)
	require.NoError(t, jar.SetCookie(ctx, &http.Cookie{
		Name: "StreamType", Value: "2", Path: "/", Expires: time.Now().Add(time.Hour),
	}))
	require.NoError(t, jar.SetCookie(ctx, &http.Cookie{
		Name: "gone", Value: "x", Path: "/", Expires: time.Now().Add(time.Hour),
	}))
	require.NoError(t, jar.SetCookie(ctx, &http.Cookie{Name: "gone", Path: "/", MaxAge: -1}))

	h, err := jar.CookieHeader(ctx)
	require.NoError(t, err)
	assert.Equal(t, "StreamType=2", h)
	require.NoError(t, jar.Save(path))

	reloaded, err := cookies.NewJarStore("http://localhost/")
	require.NoError(t, err)
	require.NoError(t, reloaded.Load(path))
	h, _ = reloaded.CookieHeader(ctx)
	assert.Equal(t, "StreamType=2", h)
}

func TestJarStore_Errors(t *testing.T) {
	_, err := cookies.NewJarStore("not a url")
	assert.Error(t, err)

	jar, err := cookies.NewJarStore("http://localhost/")
	require.NoError(t, err)
	assert.NoError(t, jar.Load(filepath.Join(t.TempDir(), "missing.json")))
}

func TestCookieStores_MigratePlaybackThroughManager(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStorage()
	mgr := viewerprefs.New(viewerprefs.WithStorage(mem))
	defer mgr.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: viewerprefs.StreamTypeCookie, Value: "2"})
	s := mgr.For("viewer1", cookies.NewHTTPStore(httptest.NewRecorder(), req))

	mode, defaulted := s.LoadDefaultPlayback(ctx)
	assert.Equal(t, "2", mode)
	assert.False(t, defaulted)

	raw, err := mem.Get(ctx, "viewer1", viewerprefs.KeyDefaultPlayback)
	require.NoError(t, err)
	assert.Equal(t, `"2"`, raw)
}

func TestJarStore_PlaybackCookieThroughManager(t *testing.T) {
	ctx := context.Background()
	jar, err := cookies.NewJarStore("http://localhost/")
	require.NoError(t, err)
	mgr := viewerprefs.New(viewerprefs.WithStorage(storage.NewMemoryStorage()))
	defer mgr.Close()

	mgr.For("viewer1", jar).SaveDefaultPlayback(ctx, "a b")

	h, err := jar.CookieHeader(ctx)
	require.NoError(t, err)
	assert.Equal(t, "StreamType=a%20b", h)

	fresh := viewerprefs.New(viewerprefs.WithStorage(storage.NewMemoryStorage()))
	defer fresh.Close()
	mode, defaulted := fresh.For("viewer1", jar).LoadDefaultPlayback(ctx)
	assert.Equal(t, "a b", mode)
	assert.False(t, defaulted)
}
