package tidy

// Option applies a configuration option to the Tidier.
type Option func(*Tidier)

// WithStrictKeys makes a composite key without a separator fail the run
// instead of producing a record with an empty event.
func WithStrictKeys(strict bool) Option {
	return func(t *Tidier) {
		t.strictKeys = strict
	}
}
