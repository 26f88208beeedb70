package api

const (
	defaultRawLimit = 5
	maxRawLimit     = 1000
)

// Option applies a configuration option to the Server.
type Option func(*options)

type options struct {
	defaultLimit int
	maxLimit     int
}

// WithRawLimits sets the default and largest row count of GET /api/raw.
func WithRawLimits(defaultLimit, maxLimit int) Option {
	return func(o *options) {
		if defaultLimit > 0 {
			o.defaultLimit = defaultLimit
		}
		if maxLimit >= o.defaultLimit {
			o.maxLimit = maxLimit
		}
	}
}
