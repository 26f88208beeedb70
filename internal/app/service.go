// Package service provides the core report service that implements
// the dependencies required by the HTTP API and the report page.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/medalboard/internal/adapters/chart"
	"github.com/okian/medalboard/internal/adapters/export"
	"github.com/okian/medalboard/internal/adapters/repository"
	"github.com/okian/medalboard/internal/adapters/session"
	"github.com/okian/medalboard/internal/domain/lookup"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/pivot"
	"github.com/okian/medalboard/internal/domain/tidy"
	"github.com/okian/medalboard/internal/domain/view"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// Service implements the report dependencies over one loaded dataset.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    *repository.FileStore
	sessions *session.Store
	tidier   *tidy.Tidier
	chart    *chart.Renderer

	// Configuration
	dataPath    string
	previewRows int
	strictKeys  bool
	sessionTTL  time.Duration
	maxSessions int
	chartWidth  int
	chartHeight int

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataPath:    "olympics_08_medalists.csv",
		previewRows: view.DefaultPreviewRows,
		sessionTTL:  30 * time.Minute,
		maxSessions: 10000,
		chartWidth:  1200,
		chartHeight: 520,
		logger:      nil, // replaced when the service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and starts the session janitor.
// A dataset that cannot be loaded or tidied fails the start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting medal report service...", logger.String("data_path", s.dataPath))

	store := repository.NewFileStore(s.dataPath)
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("service.start: %w", err)
	}
	raw, _ := store.Raw(ctx)

	s.tidier = tidy.New(tidy.WithStrictKeys(s.strictKeys))
	res, err := s.tidier.Run(ctx, raw)
	if err != nil {
		metrics.RecordPipelineError()
		return fmt.Errorf("service.start: %w", err)
	}
	s.reportDiagnostics(ctx, res.Diagnostics)

	s.store = store
	s.chart = chart.New(
		chart.WithSize(s.chartWidth, s.chartHeight),
		chart.WithTitle("Medal Count by Event and Gender"),
	)
	s.sessions = session.New(
		session.WithTTL(s.sessionTTL),
		session.WithMaxSessions(s.maxSessions),
	)
	s.sessions.Start(ctx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "medal report service started",
		logger.Int("rawRows", raw.Len()),
		logger.Int("columns", len(raw.Columns)),
		logger.Int("tidyRows", res.Diagnostics.TidyRows),
	)

	return nil
}

// reportDiagnostics logs and counts what the load-time pipeline run dropped or flagged.
func (s *Service) reportDiagnostics(ctx context.Context, d model.Diagnostics) {
	metrics.RecordRowsDropped("duplicate", d.DuplicatesDropped)
	metrics.RecordRowsDropped("missing", d.MissingDropped)
	metrics.RecordMalformedKeys(len(d.MalformedKeys))
	metrics.RecordRepeatedMedals(len(d.RepeatedMedals))

	s.logger.Info(ctx, "dataset tidied",
		logger.Int("meltedRows", d.MeltedRows),
		logger.Int("duplicatesDropped", d.DuplicatesDropped),
		logger.Int("missingDropped", d.MissingDropped),
		logger.Int("tidyRows", d.TidyRows),
	)
	for _, key := range d.MalformedKeys {
		s.logger.Warn(ctx, "column key has no gender/event separator",
			logger.String("key", key),
			logger.String("separator", tidy.KeySeparator),
		)
	}
	for _, r := range d.RepeatedMedals {
		s.logger.Warn(ctx, "athlete holds several medals for one event",
			logger.String("athlete", r.Athlete),
			logger.String("gender", r.Gender),
			logger.String("event", r.Event),
			logger.Any("medals", r.Medals),
		)
	}
}

// Stop halts the session janitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping medal report service...")
	s.sessions.Stop()
	s.started = false
	s.logger.Info(context.Background(), "medal report service stopped")
}

// pipeline re-runs the tidy pipeline against the loaded table.
func (s *Service) pipeline(ctx context.Context) (*model.RawTable, tidy.Result, error) {
	s.mu.RLock()
	store, tidier := s.store, s.tidier
	s.mu.RUnlock()
	if store == nil {
		return nil, tidy.Result{}, ErrNotStarted
	}

	raw, err := store.Raw(ctx)
	if err != nil {
		return nil, tidy.Result{}, err
	}

	start := time.Now()
	res, err := tidier.Run(ctx, raw)
	if err != nil {
		metrics.RecordPipelineError()
		return nil, tidy.Result{}, err
	}
	metrics.RecordPipelineRun(float64(time.Since(start).Milliseconds()), len(res.Records))
	s.logger.Debug(ctx, "pipeline run",
		logger.Int("tidyRows", len(res.Records)),
		logger.Int("malformedKeys", len(res.Diagnostics.MalformedKeys)),
	)
	return raw, res, nil
}

// Report builds the full report page for sel.
func (s *Service) Report(ctx context.Context, sel model.Selection) (view.View, error) {
	start := time.Now()
	raw, res, err := s.pipeline(ctx)
	if err != nil {
		return view.View{}, err
	}
	v := view.Build(raw, res, sel, view.WithPreviewRows(s.previewRows))
	metrics.RecordViewRender("report", float64(time.Since(start).Milliseconds()))
	return v, nil
}

// RawHead returns the first n rows of the raw table with its header.
func (s *Service) RawHead(ctx context.Context, n int) (*model.RawTable, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil, ErrNotStarted
	}
	raw, err := store.Raw(ctx)
	if err != nil {
		return nil, err
	}
	return &model.RawTable{Columns: raw.Columns, Rows: raw.Head(n)}, nil
}

// Tidy returns the full tidy table.
func (s *Service) Tidy(ctx context.Context) ([]model.TidyRecord, error) {
	_, res, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Diagnostics returns what the pipeline dropped or flagged.
func (s *Service) Diagnostics(ctx context.Context) (model.Diagnostics, error) {
	_, res, err := s.pipeline(ctx)
	if err != nil {
		return model.Diagnostics{}, err
	}
	return res.Diagnostics, nil
}

// Pivot returns the event × gender medal counts.
func (s *Service) Pivot(ctx context.Context) (model.CountTable, error) {
	_, res, err := s.pipeline(ctx)
	if err != nil {
		return model.CountTable{}, err
	}
	return pivot.Count(res.Records), nil
}

// Athletes returns the athlete selector options.
func (s *Service) Athletes(ctx context.Context) ([]string, error) {
	_, res, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	return lookup.Athletes(res.Records), nil
}

// Athlete returns the achievements of one athlete in table order.
func (s *Service) Athlete(ctx context.Context, name string) ([]model.Achievement, error) {
	start := time.Now()
	_, res, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	out := lookup.Achievements(res.Records, name)
	if len(out) == 0 {
		metrics.RecordEmptyLookup("athlete")
	}
	metrics.RecordViewRender("athlete", float64(time.Since(start).Milliseconds()))
	return out, nil
}

// Medalists returns the sorted medalists of one gendered event.
func (s *Service) Medalists(ctx context.Context, gender, event string) ([]model.Medalist, error) {
	start := time.Now()
	_, res, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	out := lookup.Medalists(res.Records, gender, event)
	if len(out) == 0 {
		metrics.RecordEmptyLookup("medalists")
	}
	metrics.RecordViewRender("medalists", float64(time.Since(start).Milliseconds()))
	return out, nil
}

// Chart writes the medal count bar chart as SVG.
func (s *Service) Chart(ctx context.Context, w io.Writer) error {
	table, err := s.Pivot(ctx)
	if err != nil {
		return err
	}
	s.mu.RLock()
	r := s.chart
	s.mu.RUnlock()
	return r.SVG(w, table)
}

// Export writes the tidy table in format f.
func (s *Service) Export(ctx context.Context, w io.Writer, f export.Format) error {
	records, err := s.Tidy(ctx)
	if err != nil {
		return err
	}
	return export.Write(w, f, records)
}

// NewSession starts a session and returns its id.
func (s *Service) NewSession() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sessions == nil {
		return "", ErrNotStarted
	}
	return s.sessions.New(), nil
}

// Selection returns the stored selection of a session.
func (s *Service) Selection(id string) (model.Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sessions == nil {
		return model.Selection{}, false
	}
	return s.sessions.Get(id)
}

// SaveSelection stores the selection of a session.
func (s *Service) SaveSelection(id string, sel model.Selection) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sessions == nil {
		return ErrNotStarted
	}
	return s.sessions.Save(id, sel)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"dataPath":    s.dataPath,
		"previewRows": s.previewRows,
		"strictKeys":  s.strictKeys,
	}

	if s.started {
		sessions := s.sessions.Len()
		stats["rawRows"] = s.store.Count(ctx)
		stats["loadedAt"] = s.store.LoadedAt().UTC().Format(time.RFC3339)
		stats["activeSessions"] = sessions
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())

		metrics.UpdateSessionsActive(sessions)
	}

	return stats
}
