package modulus

import (
	"errors"

	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds the number of candidates drawn per prime.
const DefaultMaxAttempts = 1 << 20

type option struct {
	maxAttempts int
	logger      *zap.Logger
}

func defaultOpts() *option {
	return &option{
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
	}
}

func applyOpts(opts ...OptionFunc) (*option, error) {
	options := defaultOpts()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

type OptionFunc func(*option) error

// WithMaxAttempts overrides the number of candidates drawn per prime before giving up.
func WithMaxAttempts(n int) OptionFunc {
	return func(o *option) error {
		if n <= 0 {
			return errors.New("`maxAttempts` must be greater than 0")
		}
		o.maxAttempts = n
		return nil
	}
}

func WithLogger(logger *zap.Logger) OptionFunc {
	return func(o *option) error {
		if logger == nil {
			return errors.New("`logger` is nil")
		}
		o.logger = logger
		return nil
	}
}
