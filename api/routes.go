package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.SetHeader("Content-Type", "application/json"))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		})

		r.Get("/validate-url", s.handleValidateURL)

		r.Route("/definitions", func(r chi.Router) {
			r.Get("/", s.handleListDefinitions)
			r.Get("/{key}", s.handleGetDefinition)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(s.ViewerMiddleware)

			r.Get("/", s.handleGetSettings)
			r.Delete("/", s.handleResetSettings)

			r.Get("/playback", s.handleGetPlayback)
			r.Put("/playback", s.handlePutPlayback)

			r.Get("/short-video-filter", s.handleGetShortVideoFilter)
			r.Put("/short-video-filter", s.handlePutShortVideoFilter)
			r.Get("/short-video-filter/events", s.handleShortVideoFilterEvents)

			r.Get("/dark-mode", s.handleGetDarkMode)
			r.Put("/dark-mode", s.handlePutDarkMode)
		})
	})
}
