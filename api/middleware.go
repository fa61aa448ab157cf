package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/CreativeUnicorns/viewerprefs"
	"github.com/CreativeUnicorns/viewerprefs/cookies"
)

const (
	// ViewerIDHeader identifies the viewer explicitly, e.g. for server-to-server calls.
	ViewerIDHeader = "X-Viewer-ID"
	// ViewerIDCookie is issued to browsers that do not send ViewerIDHeader.
	ViewerIDCookie = "viewer_id"

	maxViewerIDLength = 128
)

type contextKey struct{}

var settingsKey = contextKey{}

// LoggerMiddleware returns a middleware that logs requests using the provided logger.
func LoggerMiddleware(logger viewerprefs.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			t0 := time.Now()
			defer func() {
				logger.Info("Served request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"latency_ms", float64(time.Since(t0).Microseconds())/1000.0,
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

// ViewerMiddleware resolves the viewer of a request and stores its Settings,
// bound to the request's cookies, in the request context.
func (s *Server) ViewerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewerID, ok := s.resolveViewer(w, r)
		if !ok {
			s.respondWithError(w, r, http.StatusBadRequest, "Invalid viewer id", viewerprefs.ErrInvalidInput)
			return
		}

		settings := s.manager.For(viewerID, cookies.NewHTTPStore(w, r))
		ctx := context.WithValue(r.Context(), settingsKey, settings)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveViewer prefers the header, then a valid viewer_id cookie, and
// otherwise issues a new viewer_id cookie.
func (s *Server) resolveViewer(w http.ResponseWriter, r *http.Request) (string, bool) {
	if id := strings.TrimSpace(r.Header.Get(ViewerIDHeader)); id != "" {
		return id, len(id) <= maxViewerIDLength
	}

	if c, err := r.Cookie(ViewerIDCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String(), true
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ViewerIDCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(viewerprefs.DefaultCookieLifetimeDays * 24 * time.Hour),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("Issued viewer id", "viewer_id", id)
	return id, true
}

func settingsFrom(r *http.Request) *viewerprefs.Settings {
	settings, _ := r.Context().Value(settingsKey).(*viewerprefs.Settings)
	return settings
}
