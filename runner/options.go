package runner

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/shared"
)

type option struct {
	logger *zap.Logger
	now    func() time.Time
	commit func() string

	// tamper runs on each output between evaluation and verification.
	tamper func(tick uint64, out *shared.Output)
}

func defaultOpts() *option {
	return &option{
		logger: zap.NewNop(),
		now:    time.Now,
		commit: gitCommit,
	}
}

type OptionFunc func(*option) error

func WithLogger(logger *zap.Logger) OptionFunc {
	return func(o *option) error {
		if logger == nil {
			return errors.New("`logger` is nil")
		}
		o.logger = logger
		return nil
	}
}

// WithCommit overrides how the source revision in the run id is determined.
func WithCommit(commit func() string) OptionFunc {
	return func(o *option) error {
		if commit == nil {
			return errors.New("`commit` is nil")
		}
		o.commit = commit
		return nil
	}
}

// withClock is intended for testing purposes only.
func withClock(now func() time.Time) OptionFunc {
	return func(o *option) error {
		o.now = now
		return nil
	}
}

// withTamper is intended for testing purposes only.
func withTamper(tamper func(tick uint64, out *shared.Output)) OptionFunc {
	return func(o *option) error {
		o.tamper = tamper
		return nil
	}
}
