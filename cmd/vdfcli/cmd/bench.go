package cmd

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"sync"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/vdf/config"
	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/modulus"
	"github.com/spacemeshos/vdf/oracle"
	"github.com/spacemeshos/vdf/proving"
	"github.com/spacemeshos/vdf/rng"
	"github.com/spacemeshos/vdf/verifying"
)

var (
	benchBits     uint32 = config.DefaultModulusBits
	benchSeed     uint64 = config.DefaultSeed
	benchTs              = []uint{1 << 12, 1 << 14, 1 << 16}
	benchK        uint32 = config.DefaultK
	benchSamples         = 3
	benchParallel        = runtime.NumCPU()
)

// benchCmd represents the bench command.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark evaluation and verification",
	Long: `Bench evaluates and verifies the VDF for each difficulty, running the samples
of a difficulty concurrently, and prints a table of mean timings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchSamples < 1 {
			return fmt.Errorf("invalid `samples`; expected: >= 1, given: %d", benchSamples)
		}
		if benchParallel < 1 {
			return fmt.Errorf("invalid `parallel`; expected: >= 1, given: %d", benchParallel)
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		n, err := modulus.Generate(int(benchBits), rng.NewChaCha20(benchSeed), modulus.WithLogger(logger))
		if err != nil {
			return err
		}
		g := group.New(n)

		data := make([][]string, 0, len(benchTs))
		for i, t := range benchTs {
			logger.Info("bench: case starting", zap.Int("case", i+1), zap.Int("cases", len(benchTs)), zap.Uint("t", t))
			res, err := benchCase(cmd.Context(), g, uint64(t), benchK, benchSamples, benchParallel)
			if err != nil {
				return err
			}
			data = append(data, res.row(uint64(t), benchSamples))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n\nBENCHMARKS: bits=%d, k=%d, %s\n", g.BitLen(), benchK, hostInfo(logger))
		header := []string{"t", "samples", "eval", "verify", "squarings/s", "proof size", "ok"}
		report(out, header, data)
		return nil
	},
}

type benchResult struct {
	mu        sync.Mutex
	eval      time.Duration
	verify    time.Duration
	proofSize int
	failures  int
}

func (r *benchResult) add(eval, verify time.Duration, proofSize int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eval += eval
	r.verify += verify
	r.proofSize = max(r.proofSize, proofSize)
	if !ok {
		r.failures++
	}
}

func (r *benchResult) row(t uint64, samples int) []string {
	eval := r.eval / time.Duration(samples)
	verify := r.verify / time.Duration(samples)
	rate := "-"
	if eval > 0 {
		rate = strconv.FormatFloat(float64(t)/eval.Seconds(), 'f', 0, 64)
	}
	return []string{
		strconv.FormatUint(t, 10),
		strconv.Itoa(samples),
		eval.Round(time.Millisecond).String(),
		verify.Round(time.Millisecond).String(),
		rate,
		bytefmt.ByteSize(uint64(r.proofSize)),
		strconv.Itoa(samples-r.failures) + "/" + strconv.Itoa(samples),
	}
}

func benchCase(ctx context.Context, g *group.Group, t uint64, k uint32, samples, parallel int) (*benchResult, error) {
	res := &benchResult{}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)
	for i := 0; i < samples; i++ {
		input := oracle.Digest(binary.BigEndian.AppendUint64(nil, t), binary.BigEndian.AppendUint64(nil, uint64(i)))
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			out, err := proving.Evaluate(g, input, t, k)
			if err != nil {
				return err
			}
			eval := time.Since(start)

			start = time.Now()
			ok, err := verifying.VerifyOutput(g, out, t, k)
			if err != nil {
				return err
			}
			res.add(eval, time.Since(start), out.ProofSize(), ok)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func hostInfo(logger *zap.Logger) string {
	model := "unknown cpu"
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		model = info[0].ModelName
	} else if err != nil {
		logger.Debug("bench: cpu info unavailable", zap.Error(err))
	}
	cores, err := cpu.Counts(true)
	if err != nil {
		cores = runtime.NumCPU()
	}
	memory := "unknown"
	if vm, err := mem.VirtualMemory(); err == nil {
		memory = bytefmt.ByteSize(vm.Total)
	}
	return fmt.Sprintf("cpu=%v (%d threads), mem=%v", model, cores, memory)
}

func report(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(true)
	table.AppendBulk(data)
	table.Render()
}

func init() {
	rootCmd.AddCommand(benchCmd)

	flags := benchCmd.Flags()
	flags.Uint32Var(&benchBits, "bits", benchBits, "bit length of the modulus")
	flags.Uint64Var(&benchSeed, "seed", benchSeed, "seed of the modulus generator")
	flags.UintSliceVar(&benchTs, "t", benchTs, "difficulties to benchmark")
	flags.Uint32Var(&benchK, "k", benchK, "security parameter; the challenge prime has 2k bits")
	flags.IntVar(&benchSamples, "samples", benchSamples, "samples per difficulty")
	flags.IntVar(&benchParallel, "parallel", benchParallel, "maximum concurrent samples")
}
