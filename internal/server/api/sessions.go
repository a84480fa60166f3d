// Package api provides HTTP handlers over the mudra session journal and settings.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/store"
)

// SessionHandler serves read-only session resources.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes /api/sessions, /api/sessions/{id} and /api/sessions/{id}/events.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		h.list(w)
	case strings.HasSuffix(path, "/events"):
		h.events(w, strings.TrimSuffix(path, "/events"))
	case !strings.Contains(path, "/"):
		h.get(w, path)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type sessionResponse struct {
	ID        string         `json:"id"`
	Mode      string         `json:"mode"`
	Frames    int            `json:"frames"`
	StartedAt string         `json:"started_at"`
	EndedAt   string         `json:"ended_at,omitempty"`
	Counts    map[string]int `json:"counts,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type eventResponse struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Mode:      s.Mode,
		Frames:    s.Frames,
		StartedAt: s.StartedAt.Format(time.RFC3339),
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format(time.RFC3339)
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (h *SessionHandler) list(w http.ResponseWriter) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toResponse(s))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *SessionHandler) get(w http.ResponseWriter, id string) {
	sess, err := h.store.Sessions().Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	counts, err := h.store.Events().CountByKind(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}

	resp := toResponse(sess)
	resp.Counts = counts
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) events(w http.ResponseWriter, id string) {
	if _, err := h.store.Sessions().Get(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	events, err := h.store.Events().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			ID:        e.ID,
			Kind:      e.Kind,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

// SettingsHandler serves GET /api/settings and GET|PUT /api/settings/{key}.
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler creates a new SettingsHandler with the given store.
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

type settingRequest struct {
	Value string `json:"value"`
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/settings"), "/")

	if key == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		all, err := h.store.Settings().All()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list settings")
			return
		}
		writeJSON(w, http.StatusOK, all)
		return
	}

	switch r.Method {
	case http.MethodGet:
		value, err := h.store.Settings().Get(key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Setting not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to get setting")
			return
		}
		writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: value})

	case http.MethodPut:
		var req settingRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := h.store.Settings().Set(key, req.Value); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
		writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: req.Value})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
