// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/medalboard/internal/adapters/chart"
	"github.com/okian/medalboard/internal/adapters/export"
)

// DownloadHandler serves the chart image and table exports.
type DownloadHandler struct {
	deps DownloadDependencies
}

// NewDownloadHandler creates a new download handler.
func NewDownloadHandler(deps DownloadDependencies) *DownloadHandler {
	return &DownloadHandler{deps: deps}
}

// HandleChart handles GET /chart.svg requests.
func (h *DownloadHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_chart"
	if !isGet(w, r) {
		return
	}
	var buf bytes.Buffer
	if err := h.deps.Chart(r.Context(), &buf); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%s: %w", op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleExport handles GET /export?format=csv|json|parquet requests.
// The format defaults to csv.
func (h *DownloadHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_export"
	if !isGet(w, r) {
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(export.CSV)
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	var buf bytes.Buffer
	if err := h.deps.Export(r.Context(), &buf, f); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
