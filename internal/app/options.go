package service

import (
	"time"

	"github.com/okian/medalboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDataPath sets the CSV file the service loads on start.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithPreviewRows sets how many rows each table preview shows.
func WithPreviewRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.previewRows = n
		}
	}
}

// WithStrictKeys makes column keys without a separator fail the pipeline.
func WithStrictKeys(strict bool) Option {
	return func(s *Service) {
		s.strictKeys = strict
	}
}

// WithSessionTTL sets how long an idle session keeps its selection.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithChartSize sets the minimum bar chart size in pixels.
func WithChartSize(width, height int) Option {
	return func(s *Service) {
		if width > 0 {
			s.chartWidth = width
		}
		if height > 0 {
			s.chartHeight = height
		}
	}
}
