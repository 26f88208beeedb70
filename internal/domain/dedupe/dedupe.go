// Package dedupe tracks row keys so repeated rows can be dropped in first-seen order.
package dedupe

import (
	"context"
	"strconv"
	"strings"
)

// Deduper records seen row keys.
type Deduper interface {
	// SeenAndRecord checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Size returns the number of distinct keys recorded.
	Size() int64
}

// inMemoryDeduper is a plain set. It is owned by a single pipeline run
// and is not safe for concurrent use.
type inMemoryDeduper struct {
	seen map[string]struct{}
}

// NewInMemoryDeduper creates an unbounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &inMemoryDeduper{seen: make(map[string]struct{}, cfg.capacityHint)}
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	return int64(len(d.seen))
}

// Key builds a collision-free key from row fields. Each field is length
// prefixed, so ("a_b", "c") and ("a", "b_c") never share a key.
func Key(fields ...string) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte(':')
		b.WriteString(f)
	}
	return b.String()
}
