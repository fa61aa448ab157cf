package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CreativeUnicorns/viewerprefs"
)

// handleGetDefinition handles fetching a specific preference definition.
func (s *Server) handleGetDefinition(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	def, found := viewerprefs.LookupDefinition(key)
	if !found {
		s.respondWithError(w, r, http.StatusNotFound, "Preference definition not found", nil)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, def)
}

// handleListDefinitions handles fetching all preference definitions.
func (s *Server) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, r, http.StatusOK, viewerprefs.Definitions())
}

// handleValidateURL reports whether the url query parameter is an absolute
// http(s) URL.
func (s *Server) handleValidateURL(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	resp := map[string]interface{}{
		"url":   raw,
		"valid": true,
	}
	if _, err := viewerprefs.ParseHTTPURL(raw); err != nil {
		resp["valid"] = false
		resp["reason"] = err.Error()
	}
	s.respondWithJSON(w, r, http.StatusOK, resp)
}

// respondWithError is a helper to send JSON error responses.
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := map[string]interface{}{
		"error": map[string]string{
			"message": message,
		},
	}
	if err != nil {
		resp["error"].(map[string]string)["details"] = err.Error()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("API Error", "status", status, "message", message, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("API client error", "status", status, "message", message, "path", r.URL.Path, "error", err)
	}
	respondWithJSONRaw(w, status, resp)
}

// respondWithJSON is a helper to send JSON responses.
func (s *Server) respondWithJSON(w http.ResponseWriter, _ *http.Request, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"Failed to marshal response"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// respondWithJSONRaw is used for error payloads, which are plain maps.
func respondWithJSONRaw(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"Critical: Failed to marshal error response"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
