package repository

import "time"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithClock sets the time source used to stamp loads.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}
