// Package site renders the single-page medal report.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"regexp"
	"strings"

	"github.com/okian/medalboard/internal/adapters/chart"
	"github.com/okian/medalboard/internal/adapters/http/api"
	"github.com/okian/medalboard/internal/adapters/session"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/view"
	"github.com/okian/medalboard/pkg/logger"
)

// Error constants
var (
	ErrRender = errors.New("report render failed")
)

// Dependencies required by the report page.
type Dependencies interface {
	Report(ctx context.Context, sel model.Selection) (view.View, error)
	NewSession() (string, error)
	Selection(id string) (model.Selection, bool)
	SaveSelection(id string, sel model.Selection) error
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`) //nolint:gochecknoglobals // compiled once

var funcMap = template.FuncMap{ //nolint:gochecknoglobals // template helpers
	"cell": func(c model.Cell) string {
		if c.Null {
			return "None"
		}
		return c.Value
	},
	"medalClass": func(medal string) string {
		if model.IsMedal(medal) {
			return "medal-" + strings.ToLower(medal)
		}
		return "medal-other"
	},
	// swatch trusts colors from the chart palette only.
	"swatch": func(color string) template.CSS {
		if !hexColor.MatchString(color) {
			return ""
		}
		return template.CSS("background: " + color) //nolint:gosec // validated hex color
	},
	"count": func(t model.CountTable, event, gender string) string {
		if n, ok := t.Count(event, gender); ok {
			return fmt.Sprint(n)
		}
		return "None"
	},
}

var reportTemplate = template.Must( //nolint:gochecknoglobals // parsed once
	template.New("report.html.tmpl").Funcs(funcMap).ParseFS(siteFS, "templates/report.html.tmpl"),
)

// page is the template data.
type page struct {
	View   view.View
	Legend []chart.Swatch
}

// RootHandler handles report page requests.
type RootHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps Dependencies, log logger.Logger) *RootHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RootHandler{deps: deps, logger: log}
}

// Register attaches the report page and its stylesheet to mux.
func Register(_ context.Context, mux *http.ServeMux, h *RootHandler) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleRoot, "report"))
}

// HandleRoot handles GET / requests. Query parameters athlete, gender and
// event update the session's selection before the page is built.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()

	id, sel, err := h.session(w, r)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	q := r.URL.Query()
	sel = sel.Merge(model.Selection{
		Athlete: q.Get("athlete"),
		Gender:  q.Get("gender"),
		Event:   q.Get("event"),
	})

	v, err := h.deps.Report(ctx, sel)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	if err := h.deps.SaveSelection(id, v.Selection); err != nil {
		h.logger.Warn(ctx, "failed to save selection", logger.String("session", id), logger.Error(err))
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, page{View: v, Legend: chart.Legend(v.Pivot)}); err != nil {
		h.fail(ctx, w, fmt.Errorf("%w: %w", ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// session returns the caller's session, starting one when the cookie is
// missing or stale.
func (h *RootHandler) session(w http.ResponseWriter, r *http.Request) (string, model.Selection, error) {
	if c, err := r.Cookie(session.CookieName); err == nil {
		if sel, ok := h.deps.Selection(c.Value); ok {
			return c.Value, sel, nil
		}
	}
	id, err := h.deps.NewSession()
	if err != nil {
		return "", model.Selection{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, model.Selection{}, nil
}

func (h *RootHandler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	h.logger.Error(ctx, "report page failed", logger.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
