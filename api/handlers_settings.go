package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/CreativeUnicorns/viewerprefs"
)

const maxBodyBytes = 64 * 1024

type settingsResponse struct {
	ViewerID string `json:"viewer_id"`
	viewerprefs.Snapshot
}

type playbackResponse struct {
	Mode      string `json:"mode"`
	Defaulted bool   `json:"defaulted"`
}

type shortVideoFilterResponse struct {
	viewerprefs.ShortVideoFilter
	MaxSeconds float64 `json:"max_seconds"`
	Defaulted  bool    `json:"defaulted"`
}

type darkModeResponse struct {
	Dark      bool `json:"dark"`
	Defaulted bool `json:"defaulted"`
}

// decodeBody reads a JSON object with loosely typed values.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", viewerprefs.ErrInvalidInput, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", viewerprefs.ErrInvalidInput)
	}
	return body, nil
}

// field coerces body[name] to the type of the preference stored under key.
// ok is false when the field is absent.
func field(body map[string]interface{}, name, key string) (v interface{}, ok bool, err error) {
	raw, present := body[name]
	if !present {
		return nil, false, nil
	}
	def, _ := viewerprefs.LookupDefinition(key)
	v, err = viewerprefs.Coerce(def, raw)
	if err != nil {
		return nil, true, fmt.Errorf("field %q: %w", name, err)
	}
	return v, true, nil
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings := settingsFrom(r)
	s.respondWithJSON(w, r, http.StatusOK, settingsResponse{
		ViewerID: settings.ViewerID(),
		Snapshot: settings.Snapshot(r.Context()),
	})
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	settingsFrom(r).Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPlayback(w http.ResponseWriter, r *http.Request) {
	mode, defaulted := settingsFrom(r).LoadDefaultPlayback(r.Context())
	s.respondWithJSON(w, r, http.StatusOK, playbackResponse{Mode: mode, Defaulted: defaulted})
}

func (s *Server) handlePutPlayback(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	mode, ok, err := field(body, "mode", viewerprefs.KeyDefaultPlayback)
	if err == nil && (!ok || mode.(string) == "") {
		err = fmt.Errorf("field %q: %w", "mode", viewerprefs.ErrInvalidValue)
	}
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid playback mode", err)
		return
	}

	settings := settingsFrom(r)
	settings.SaveDefaultPlayback(r.Context(), mode.(string))
	s.handleGetPlayback(w, r)
}

func (s *Server) handleGetShortVideoFilter(w http.ResponseWriter, r *http.Request) {
	f, defaulted := settingsFrom(r).LoadShortVideoFilter(r.Context())
	s.respondWithJSON(w, r, http.StatusOK, shortVideoFilterResponse{
		ShortVideoFilter: f,
		MaxSeconds:       f.Minutes * 60,
		Defaulted:        defaulted,
	})
}

// handlePutShortVideoFilter accepts either field alone; the other keeps its
// current value.
func (s *Server) handlePutShortVideoFilter(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	enabled, hasEnabled, err := field(body, "enabled", viewerprefs.KeyShortVideoFilterEnabled)
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid short video filter", err)
		return
	}
	minutes, hasMinutes, err := field(body, "minutes", viewerprefs.KeyShortVideoFilterMinutes)
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid short video filter", err)
		return
	}
	if !hasEnabled && !hasMinutes {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid short video filter",
			fmt.Errorf("%w: expected enabled or minutes", viewerprefs.ErrInvalidInput))
		return
	}

	settings := settingsFrom(r)
	current, _ := settings.LoadShortVideoFilter(r.Context())
	if hasEnabled {
		current.Enabled = enabled.(bool)
	}
	if hasMinutes {
		current.Minutes = minutes.(float64)
	}
	settings.SaveShortVideoFilter(r.Context(), current.Enabled, current.Minutes)
	s.handleGetShortVideoFilter(w, r)
}

// handleShortVideoFilterEvents streams every duration filter published for
// the viewer as server-sent events, starting with the current one. The stream
// ends when the client goes away or the server shuts down.
func (s *Server) handleShortVideoFilterEvents(w http.ResponseWriter, r *http.Request) {
	settings := settingsFrom(r)
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	updates, cancel := s.manager.Filters().Subscribe(16)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Error("Event stream not supported", "error", err)
		return
	}

	settings.LoadShortVideoFilter(r.Context())

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case f, ok := <-updates:
			if !ok {
				return
			}
			if f.ViewerID != settings.ViewerID() {
				continue
			}
			data, err := json.Marshal(f)
			if err != nil {
				s.logger.Error("Failed to encode duration filter", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: durationFilter\ndata: %s\n\n", data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleGetDarkMode(w http.ResponseWriter, r *http.Request) {
	dark, defaulted := settingsFrom(r).LoadDarkMode(r.Context())
	s.respondWithJSON(w, r, http.StatusOK, darkModeResponse{Dark: dark, Defaulted: defaulted})
}

func (s *Server) handlePutDarkMode(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	dark, ok, err := field(body, "dark", viewerprefs.KeyDarkMode)
	if err == nil && !ok {
		err = fmt.Errorf("field %q: %w", "dark", viewerprefs.ErrInvalidValue)
	}
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid dark mode", err)
		return
	}

	settingsFrom(r).SaveDarkMode(r.Context(), dark.(bool))
	s.handleGetDarkMode(w, r)
}
