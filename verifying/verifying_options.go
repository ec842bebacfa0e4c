package verifying

import (
	"errors"

	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/shared"
)

type option struct {
	algorithm shared.ProofAlgorithm
	logger    *zap.Logger
}

func applyOpts(options ...OptionFunc) (*option, error) {
	opts := &option{
		algorithm: shared.ProofAlg4,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if err := opt(opts); err != nil {
			return nil, err
		}
	}
	if err := opts.algorithm.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

type OptionFunc func(*option) error

// WithProofAlgorithm selects the algorithm the proof was generated with.
func WithProofAlgorithm(algorithm shared.ProofAlgorithm) OptionFunc {
	return func(o *option) error {
		o.algorithm = algorithm
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
