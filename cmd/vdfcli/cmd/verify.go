package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/config"
	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/modulus"
	"github.com/spacemeshos/vdf/persistence"
	"github.com/spacemeshos/vdf/shared"
	"github.com/spacemeshos/vdf/verifying"
)

var (
	verifyProofFile string

	errProofInvalid = errors.New("proof is invalid")
)

// verifyCmd represents the verify command.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a proof file",
	Long: `Verify checks a proof file written by eval --out. It exits with a non-zero
status if the proof doesn't verify.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifyProofFile == "" {
			return errors.New("--proof flag is required")
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		proof, err := persistence.FetchProof(canonicalPath(verifyProofFile))
		if err != nil {
			return err
		}
		if err := checkProofFile(proof); err != nil {
			return err
		}
		n := proof.ModulusInt()

		start := time.Now()
		ok, err := verifying.VerifyOutput(group.New(n), proof.Output(), proof.T, proof.K,
			verifying.WithProofAlgorithm(proof.Algorithm),
			verifying.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		logger.Info("cli: verification completed",
			zap.Bool("ok", ok),
			zap.Uint64("t", proof.T),
			zap.Uint32("k", proof.K),
			zap.Duration("duration", time.Since(start)),
		)

		if !ok {
			return errProofInvalid
		}
		fmt.Fprintln(cmd.OutOrStdout(), "proof is valid")
		return nil
	},
}

// checkProofFile rejects parameters of an untrusted proof file that would make
// verification fail or run unbounded.
func checkProofFile(proof *persistence.ProofFile) error {
	n := proof.ModulusInt()
	if n.BitLen() < modulus.MinBits || n.BitLen() > config.MaxModulusBits || n.Bit(0) == 0 {
		return shared.ConfigError{
			Param:    "Modulus",
			Expected: fmt.Sprintf("odd, %d..%d bits", modulus.MinBits, config.MaxModulusBits),
			Given:    fmt.Sprintf("%d bits", n.BitLen()),
		}
	}
	if proof.T == 0 {
		return shared.ConfigError{Param: "T", Expected: "> 0", Given: "0"}
	}
	if proof.K == 0 || proof.K > config.MaxK {
		return shared.ConfigError{Param: "K", Expected: fmt.Sprintf("1..%d", config.MaxK), Given: fmt.Sprint(proof.K)}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyProofFile, "proof", "", "proof file to verify")
}
