// Package runner drives VDF experiments: it sets up a group from a seed, then
// evaluates and verifies one input per tick and records the timings.
package runner

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/spacemeshos/sha256-simd"
	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/config"
	"github.com/spacemeshos/vdf/event"
	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/modulus"
	"github.com/spacemeshos/vdf/persistence"
	"github.com/spacemeshos/vdf/proving"
	"github.com/spacemeshos/vdf/rng"
	"github.com/spacemeshos/vdf/shared"
	"github.com/spacemeshos/vdf/stats"
	"github.com/spacemeshos/vdf/verifying"
)

// InputSize is the size of generated inputs.
const InputSize = 32

// Runner executes one experiment run. Ticks are evaluated sequentially.
type Runner struct {
	cfg   config.RunConfig
	sink  persistence.Sink
	runID string

	logger *zap.Logger
	tamper func(tick uint64, out *shared.Output)
}

// New validates cfg and returns a runner writing to sink. The sink is not closed by the runner.
func New(cfg config.RunConfig, sink persistence.Sink, opts ...OptionFunc) (*Runner, error) {
	options := defaultOpts()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, fmt.Errorf("invalid `sink`; expected: non-nil, given: nil")
	}

	runID, err := BuildRunID(&cfg, options.now(), options.commit())
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:    cfg,
		sink:   sink,
		runID:  runID,
		logger: options.logger.With(zap.String("runID", runID)),
		tamper: options.tamper,
	}, nil
}

func (r *Runner) RunID() string {
	return r.runID
}

// Run generates the modulus and evaluates every tick.
//
// If ctx is canceled between ticks, the summary of the ticks completed so far
// is written and ctx.Err() is returned. A proof that fails verification is
// recorded and the run continues; any other error aborts the run.
func (r *Runner) Run(ctx context.Context) error {
	cfg := r.cfg
	source := rng.NewChaCha20(cfg.Tasks.Seed)

	start := time.Now()
	n, err := modulus.Generate(int(cfg.VDF.ModulusBits), source, modulus.WithLogger(r.logger))
	if err != nil {
		return err
	}
	g := group.New(n)
	r.logger.Info("runner: generated modulus",
		zap.Uint32("bits", cfg.VDF.ModulusBits),
		zap.Uint64("seed", cfg.Tasks.Seed),
		zap.Duration("duration", time.Since(start)),
	)

	x, err := readInput(source)
	if err != nil {
		return err
	}

	r.logger.Info("runner: host", hostFields()...)
	r.logger.Info("runner: starting run",
		zap.Uint64("ticks", cfg.Tasks.Ticks),
		zap.Uint64("warmup", cfg.Tasks.Warmup),
		zap.String("mode", string(cfg.Tasks.Mode)),
		zap.Uint64("t", cfg.VDF.T),
		zap.Uint32("k", cfg.VDF.K),
	)

	durations := make([]time.Duration, 0, cfg.Tasks.Ticks)
	runStart := time.Now()
	var runErr error
	for tick := uint64(0); tick < cfg.Tasks.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		if cfg.Tasks.Mode == config.RandomInput {
			if x, err = readInput(source); err != nil {
				return err
			}
		}

		y, duration, err := r.tick(g, x, tick, runStart)
		if err != nil {
			return err
		}
		if tick >= cfg.Tasks.Warmup {
			durations = append(durations, duration)
		}

		if cfg.Tasks.Mode == config.Chained {
			x = nextChallenge(x, y, tick)
		}

		if cooldown := cfg.Runner.Cooldown(); cooldown > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(cooldown):
			}
		}
	}

	if err := r.writeSummary(durations); err != nil {
		return err
	}
	return runErr
}

// tick evaluates and verifies x and records the result. It returns the output
// element and the evaluation time.
func (r *Runner) tick(g *group.Group, x []byte, tick uint64, runStart time.Time) (*big.Int, time.Duration, error) {
	cfg := r.cfg.VDF

	start := time.Now()
	out, err := proving.Evaluate(g, x, cfg.T, cfg.K,
		proving.WithProofAlgorithm(cfg.ProofAlgorithm),
		proving.WithLogger(r.logger),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("tick %d: %w", tick, err)
	}
	duration := time.Since(start)

	if r.tamper != nil {
		r.tamper(tick, out)
	}

	verifyStart := time.Now()
	ok, err := verifying.VerifyOutput(g, out, cfg.T, cfg.K,
		verifying.WithProofAlgorithm(cfg.ProofAlgorithm),
		verifying.WithLogger(r.logger),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("tick %d: %w", tick, err)
	}
	verifyTime := time.Since(verifyStart).Nanoseconds()

	if !ok {
		r.logger.Warn("runner: proof failed verification", zap.Uint64("tick", tick))
	}

	offset := start.Sub(runStart).Nanoseconds()
	work := cfg.T
	proofSize := out.ProofSize()
	ev := &event.TimeUnitEvent{
		RunID: r.runID,
		Unit: event.TimeUnit{
			UnitID:           tick,
			UnitType:         event.UnitTypeVDFTick,
			TargetDurationNs: r.targetNs(),
			StartTsNs:        offset,
			EndTsNs:          offset + duration.Nanoseconds(),
			DurationNs:       duration.Nanoseconds(),
			WorkAmount:       &work,
			ProofSizeBytes:   &proofSize,
			VerifyTimeNs:     &verifyTime,
			Metadata:         event.NewMetadata(r.cfg.Tasks.Mode, cfg, ok),
		},
	}
	if err := r.sink.WriteEvent(ev); err != nil {
		return nil, 0, err
	}

	r.logger.Debug("runner: tick",
		zap.Uint64("tick", tick),
		zap.Duration("eval", duration),
		zap.Duration("verify", time.Duration(verifyTime)),
		zap.Bool("ok", ok),
	)
	return out.Y, duration, nil
}

func (r *Runner) writeSummary(durations []time.Duration) error {
	summary, ok := stats.Summarize(durations, r.cfg.VDF.TargetDuration)
	if !ok {
		r.logger.Info("runner: no samples after warm-up; skipping summary")
		return nil
	}

	report := &stats.Report{
		RunID:            r.runID,
		UnitType:         event.UnitTypeVDFTick,
		TargetDurationNs: r.targetNs(),
		Summary:          *summary,
	}
	if err := r.sink.WriteSummary(report); err != nil {
		return err
	}

	r.logger.Info("runner: run completed",
		zap.Int("samples", summary.SampleCount),
		zap.Duration("mean", time.Duration(summary.MeanNs)),
		zap.Duration("p99", time.Duration(summary.P99Ns)),
	)
	return nil
}

func (r *Runner) targetNs() *int64 {
	if r.cfg.VDF.TargetDuration <= 0 {
		return nil
	}
	ns := r.cfg.VDF.TargetDuration.Nanoseconds()
	return &ns
}

func readInput(source io.Reader) ([]byte, error) {
	x := make([]byte, InputSize)
	if _, err := io.ReadFull(source, x); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return x, nil
}

// nextChallenge returns SHA-256(x || y || BE64(tick)).
func nextChallenge(x []byte, y *big.Int, tick uint64) []byte {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], tick)

	hh := sha256.New()
	hh.Write(x)
	hh.Write(y.Bytes())
	hh.Write(ctr[:])
	return hh.Sum(nil)
}
