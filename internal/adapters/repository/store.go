// Package repository loads the medal dataset and holds it for the process lifetime.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/pkg/metrics"
)

// Store provides read access to the loaded dataset.
type Store interface {
	// Raw returns the loaded table. The table must not be modified.
	// Returns ErrNotLoaded before a successful Load.
	Raw(ctx context.Context) (*model.RawTable, error)

	// Count returns the number of raw rows, zero before load.
	Count(ctx context.Context) int
}

// FileStore reads a CSV file once and serves the table read-only.
type FileStore struct {
	path string
	now  func() time.Time

	mu       sync.RWMutex
	raw      *model.RawTable
	loadedAt time.Time
}

// NewFileStore creates a store for the CSV at path. Call Load before use.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the file. A failed load keeps any previously loaded table.
func (s *FileStore) Load(ctx context.Context) error {
	raw, err := Load(ctx, s.path)
	if err != nil {
		metrics.RecordDatasetLoadError()
		return err
	}
	at := s.now()

	s.mu.Lock()
	s.raw = raw
	s.loadedAt = at
	s.mu.Unlock()

	metrics.RecordDatasetLoaded(raw.Len(), len(raw.Columns), at)
	return nil
}

func (s *FileStore) Raw(_ context.Context) (*model.RawTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == nil {
		return nil, fmt.Errorf("repository.raw: %w", ErrNotLoaded)
	}
	return s.raw, nil
}

func (s *FileStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw.Len()
}

// Source returns the file path the store reads.
func (s *FileStore) Source() string { return s.path }

// LoadedAt returns the time of the last successful load, zero before load.
func (s *FileStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
