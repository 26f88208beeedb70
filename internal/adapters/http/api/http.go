// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/medalboard/internal/adapters/export"
	"github.com/okian/medalboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TableDependencies
	LookupDependencies
	DownloadDependencies
}

// Server wires HTTP routes for the report API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	tablesHandler   *TablesHandler
	lookupHandler   *LookupHandler
	downloadHandler *DownloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := options{defaultLimit: defaultRawLimit, maxLimit: maxRawLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		tablesHandler:   NewTablesHandler(deps, o.defaultLimit, o.maxLimit),
		lookupHandler:   NewLookupHandler(deps),
		downloadHandler: NewDownloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/raw", MetricsMiddleware(s.tablesHandler.HandleRaw, "raw"))
	mux.HandleFunc("/api/tidy", MetricsMiddleware(s.tablesHandler.HandleTidy, "tidy"))
	mux.HandleFunc("/api/pivot", MetricsMiddleware(s.tablesHandler.HandlePivot, "pivot"))
	mux.HandleFunc("/api/diagnostics", MetricsMiddleware(s.tablesHandler.HandleDiagnostics, "diagnostics"))
	mux.HandleFunc("/api/athletes", MetricsMiddleware(s.lookupHandler.HandleAthletes, "athletes"))
	mux.HandleFunc("/api/athletes/", MetricsMiddleware(s.lookupHandler.HandleAthlete, "athlete"))
	mux.HandleFunc("/api/medalists", MetricsMiddleware(s.lookupHandler.HandleMedalists, "medalists"))
	mux.HandleFunc("/chart.svg", MetricsMiddleware(s.downloadHandler.HandleChart, "chart"))
	mux.HandleFunc("/export", MetricsMiddleware(s.downloadHandler.HandleExport, "export"))
}

// DownloadDependencies render binary outputs.
type DownloadDependencies interface {
	Chart(ctx context.Context, w io.Writer) error
	Export(ctx context.Context, w io.Writer, f export.Format) error
}

// TableDependencies expose the pipeline stages.
type TableDependencies interface {
	RawHead(ctx context.Context, n int) (*model.RawTable, error)
	Tidy(ctx context.Context) ([]model.TidyRecord, error)
	Pivot(ctx context.Context) (model.CountTable, error)
	Diagnostics(ctx context.Context) (model.Diagnostics, error)
}

// LookupDependencies answer the selector-driven queries.
type LookupDependencies interface {
	Athletes(ctx context.Context) ([]string, error)
	Athlete(ctx context.Context, name string) ([]model.Achievement, error)
	Medalists(ctx context.Context, gender, event string) ([]model.Medalist, error)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isGet answers non-GET requests with 404 and reports whether to continue.
func isGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return false
	}
	return true
}
