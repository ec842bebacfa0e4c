package cmd

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/config"
	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/modulus"
	"github.com/spacemeshos/vdf/persistence"
	"github.com/spacemeshos/vdf/proving"
	"github.com/spacemeshos/vdf/rng"
	"github.com/spacemeshos/vdf/shared"
	"github.com/spacemeshos/vdf/verifying"
)

var (
	evalCfg         = config.DefaultConfig()
	evalSeed uint64 = config.DefaultSeed

	evalInputHex string
	evalOut      string
)

// evalCmd represents the eval command.
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the VDF on one input",
	Long: `Eval generates the modulus for the given seed, evaluates the VDF on the input
and prints the output and its proof. With --out the proof is also written to a
file that can be checked with the verify command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := evalCfg.Validate(); err != nil {
			return err
		}
		input, err := hex.DecodeString(evalInputHex)
		if err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		n, err := modulus.Generate(int(evalCfg.ModulusBits), rng.NewChaCha20(evalSeed), modulus.WithLogger(logger))
		if err != nil {
			return err
		}
		g := group.New(n)

		start := time.Now()
		out, err := proving.Evaluate(g, input, evalCfg.T, evalCfg.K,
			proving.WithProofAlgorithm(evalCfg.ProofAlgorithm),
			proving.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		start = time.Now()
		ok, err := verifying.VerifyOutput(g, out, evalCfg.T, evalCfg.K, verifying.WithProofAlgorithm(evalCfg.ProofAlgorithm))
		if err != nil {
			return err
		}
		logger.Info("cli: evaluation completed",
			zap.Duration("eval", elapsed),
			zap.Duration("verify", time.Since(start)),
			zap.Bool("ok", ok),
		)

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "g: %x\n", out.G.Bytes())
		fmt.Fprintf(w, "y: %x\n", out.Y.Bytes())
		fmt.Fprintf(w, "proof: %x\n", out.Proof.Bytes())

		if evalOut != "" {
			path := canonicalPath(evalOut)
			if err := persistence.PersistProof(path, persistence.NewProofFile(n, out, evalCfg.T, evalCfg.K, evalCfg.ProofAlgorithm)); err != nil {
				return err
			}
			logger.Info("cli: proof written", zap.String("path", path))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)

	flags := evalCmd.Flags()
	flags.Uint32Var(&evalCfg.ModulusBits, "bits", evalCfg.ModulusBits, "bit length of the modulus")
	flags.Uint64Var(&evalSeed, "seed", evalSeed, "seed of the modulus generator")
	flags.Uint64Var(&evalCfg.T, "t", evalCfg.T, "number of squarings")
	flags.Uint32Var(&evalCfg.K, "k", evalCfg.K, "security parameter; the challenge prime has 2k bits")
	flags.StringVar((*string)(&evalCfg.ProofAlgorithm), "proofAlgo", string(shared.ProofAlg4), "proof algorithm")
	flags.StringVar(&evalInputHex, "input", "", "input, in hex")
	flags.StringVar(&evalOut, "out", "", "write the proof to this file")
}
