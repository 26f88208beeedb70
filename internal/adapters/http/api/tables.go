// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/medalboard/internal/domain/model"
)

// TablesHandler serves the pipeline stage tables.
type TablesHandler struct {
	deps         TableDependencies
	defaultLimit int
	maxLimit     int
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(deps TableDependencies, defaultLimit, maxLimit int) *TablesHandler {
	return &TablesHandler{deps: deps, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// rawResponse carries missing cells as null.
type rawResponse struct {
	Columns []string    `json:"columns"`
	Rows    [][]*string `json:"rows"`
}

func newRawResponse(t *model.RawTable) rawResponse {
	out := rawResponse{Columns: t.Columns, Rows: make([][]*string, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = make([]*string, len(row))
		for j := range row {
			if !row[j].Null {
				out.Rows[i][j] = &row[j].Value
			}
		}
	}
	return out
}

// HandleRaw handles GET /api/raw?limit=N requests.
func (h *TablesHandler) HandleRaw(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_raw"
	if !isGet(w, r) {
		return
	}
	n := h.defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: limit must be a positive integer", op, ErrBadRequest))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%s: %w: limit above %d", op, ErrBadRequest, h.maxLimit))
			return
		}
		n = v
	}
	head, err := h.deps.RawHead(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, newRawResponse(head))
}

// HandleTidy handles GET /api/tidy requests.
func (h *TablesHandler) HandleTidy(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tidy"
	if !isGet(w, r) {
		return
	}
	records, err := h.deps.Tidy(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	if records == nil {
		records = []model.TidyRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// pivotResponse lists counts per event in Genders order, zero for absent pairs.
type pivotResponse struct {
	Events  []string          `json:"events"`
	Genders []string          `json:"genders"`
	Counts  [][]int           `json:"counts"`
	Cells   []model.CountCell `json:"cells"`
}

// HandlePivot handles GET /api/pivot requests.
func (h *TablesHandler) HandlePivot(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pivot"
	if !isGet(w, r) {
		return
	}
	table, err := h.deps.Pivot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	resp := pivotResponse{
		Events:  nonNil(table.Events),
		Genders: nonNil(table.Genders),
		Counts:  make([][]int, len(table.Events)),
		Cells:   table.Flatten(),
	}
	for i, e := range table.Events {
		resp.Counts[i] = table.Row(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDiagnostics handles GET /api/diagnostics requests.
func (h *TablesHandler) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_diagnostics"
	if !isGet(w, r) {
		return
	}
	d, err := h.deps.Diagnostics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	d.MalformedKeys = nonNil(d.MalformedKeys)
	if d.RepeatedMedals == nil {
		d.RepeatedMedals = []model.RepeatedMedal{}
	}
	writeJSON(w, http.StatusOK, d)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
