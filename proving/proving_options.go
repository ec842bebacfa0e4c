package proving

import (
	"errors"

	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/shared"
)

type option struct {
	algorithm shared.ProofAlgorithm
	logger    *zap.Logger
}

func defaultOpts() *option {
	return &option{
		algorithm: shared.ProofAlg4,
		logger:    zap.NewNop(),
	}
}

func (o *option) validate() error {
	return o.algorithm.Validate()
}

func applyOpts(opts ...OptionFunc) (*option, error) {
	options := defaultOpts()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	if err := options.validate(); err != nil {
		return nil, err
	}
	return options, nil
}

type OptionFunc func(*option) error

// WithProofAlgorithm selects the proof algorithm. Only shared.ProofAlg4 is implemented.
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
