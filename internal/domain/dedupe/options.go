package dedupe

// Option applies a configuration option to the deduper.
type Option func(*options)

type options struct {
	capacityHint int
}

// WithCapacityHint presizes the set for n keys.
func WithCapacityHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacityHint = n
		}
	}
}
