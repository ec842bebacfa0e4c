package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/config"
	"github.com/spacemeshos/vdf/event"
	"github.com/spacemeshos/vdf/persistence"
	"github.com/spacemeshos/vdf/runner"
	"github.com/spacemeshos/vdf/stats"
)

var (
	runCfg = config.DefaultRunConfig()

	configFile    string
	printConfig   bool
	metricsListen string
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a timed VDF experiment",
	Long: `Run generates a modulus from the configured seed, then evaluates and verifies
one input per tick. Every tick is recorded as an event; a summary of the
evaluation times after warm-up is written at the end of the run.

Values are read from the config file (TOML, YAML or JSON) and can be
overridden with flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadRunConfig(cmd.Flags(), &runCfg, configFile); err != nil {
			return err
		}

		if printConfig {
			spew.Fdump(cmd.OutOrStdout(), runCfg)
			return nil
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return runExperiment(ctx, runCfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.StringVar(&configFile, "config", "", "path to the configuration file (default "+defaultConfigFile+")")
	flags.BoolVar(&printConfig, "printConfig", false, "print the used config and exit")
	flags.StringVar(&metricsListen, "metricsListen", "", "address to serve Prometheus metrics on (disabled if empty)")

	flags.Uint64Var(&runCfg.Tasks.Ticks, "ticks", runCfg.Tasks.Ticks, "number of ticks to evaluate")
	flags.Uint64Var(&runCfg.Tasks.Warmup, "warmup", runCfg.Tasks.Warmup, "number of leading ticks excluded from the summary")
	flags.StringVar((*string)(&runCfg.Tasks.Mode), "mode", string(runCfg.Tasks.Mode), "input mode (fixed-input, random-input, chained)")
	flags.Uint64Var(&runCfg.Tasks.Seed, "seed", runCfg.Tasks.Seed, "seed of the modulus and input generator")

	flags.Uint32Var(&runCfg.VDF.ModulusBits, "bits", runCfg.VDF.ModulusBits, "bit length of the modulus")
	flags.Uint64Var(&runCfg.VDF.T, "t", runCfg.VDF.T, "number of squarings per evaluation")
	flags.Uint32Var(&runCfg.VDF.K, "k", runCfg.VDF.K, "security parameter; the challenge prime has 2k bits")
	flags.StringVar((*string)(&runCfg.VDF.ProofAlgorithm), "proofAlgo", string(runCfg.VDF.ProofAlgorithm), "proof algorithm")
	flags.DurationVar(&runCfg.VDF.TargetDuration, "targetDuration", runCfg.VDF.TargetDuration, "expected duration of one evaluation, used for drift")

	flags.Uint64Var(&runCfg.Runner.CooldownMs, "cooldownMs", runCfg.Runner.CooldownMs, "pause between ticks, in milliseconds")

	flags.StringVar((*string)(&runCfg.Output.Format), "format", string(runCfg.Output.Format), "output format (jsonl, table, both)")
	flags.StringVar(&runCfg.Output.EventsPath, "events", runCfg.Output.EventsPath, "events file, one JSON object per line")
	flags.StringVar(&runCfg.Output.SummaryPath, "summary", runCfg.Output.SummaryPath, "summary file")
	flags.StringVar(&runCfg.Output.TablePath, "table", runCfg.Output.TablePath, "table output file (stdout if empty)")
}

func runExperiment(ctx context.Context, cfg config.RunConfig, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	sink, err := newSink(cfg.Output, logger)
	if err != nil {
		return err
	}

	r, err := runner.New(cfg, sink, runner.WithLogger(logger))
	if err != nil {
		return errors.Join(err, sink.Close())
	}
	logger.Info("cli: starting run", zap.String("runID", r.RunID()))

	err = r.Run(ctx)
	if cerr := sink.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("cli: run interrupted")
		return nil
	case err != nil:
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

func newSink(cfg config.OutputConfig, logger *zap.Logger) (persistence.Sink, error) {
	var sinks persistence.MultiSink
	if cfg.Format.JSONL() {
		s, err := persistence.NewJSONLSink(cfg.EventsPath, cfg.SummaryPath, logger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if cfg.Format.Table() {
		s, err := persistence.NewTableFileSink(cfg.TablePath)
		if err != nil {
			return nil, errors.Join(err, sinks.Close())
		}
		sinks = append(sinks, s)
	}

	if metricsListen != "" {
		reg := prometheus.NewRegistry()
		s, err := persistence.NewMetricsSink(reg)
		if err != nil {
			return nil, errors.Join(err, sinks.Close())
		}
		sinks = append(sinks, s, serveMetrics(metricsListen, reg, logger))
	}

	return sinks, nil
}

// metricsServer is a sink that only exists to stop the metrics endpoint when the run is closed.
type metricsServer struct {
	srv *http.Server
}

var _ persistence.Sink = (*metricsServer)(nil)

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("cli: serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("cli: metrics server failed", zap.Error(err))
		}
	}()
	return &metricsServer{srv: srv}
}

func (m *metricsServer) WriteEvent(*event.TimeUnitEvent) error { return nil }

func (m *metricsServer) WriteSummary(*stats.Report) error { return nil }

func (m *metricsServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.srv.Shutdown(ctx)
}
