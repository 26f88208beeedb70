// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strings"
)

// LookupHandler serves the athlete and gender/event lookups.
type LookupHandler struct {
	deps LookupDependencies
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(deps LookupDependencies) *LookupHandler {
	return &LookupHandler{deps: deps}
}

// HandleAthletes handles GET /api/athletes requests.
func (h *LookupHandler) HandleAthletes(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_athletes"
	if !isGet(w, r) {
		return
	}
	names, err := h.deps.Athletes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(names))
}

// HandleAthlete handles GET /api/athletes/{name} requests.
// An athlete without medals gets an empty list.
func (h *LookupHandler) HandleAthlete(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_athlete"
	if !isGet(w, r) {
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/athletes/")
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: missing athlete name", op, ErrBadRequest))
		return
	}
	achievements, err := h.deps.Athlete(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

// HandleMedalists handles GET /api/medalists?gender=G&event=E requests.
func (h *LookupHandler) HandleMedalists(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_medalists"
	if !isGet(w, r) {
		return
	}
	q := r.URL.Query()
	gender, event := q.Get("gender"), q.Get("event")
	if gender == "" || event == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: gender and event are required", op, ErrBadRequest))
		return
	}
	medalists, err := h.deps.Medalists(r.Context(), gender, event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, medalists)
}
