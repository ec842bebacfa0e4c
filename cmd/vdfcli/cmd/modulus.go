package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacemeshos/vdf/config"
	"github.com/spacemeshos/vdf/modulus"
	"github.com/spacemeshos/vdf/rng"
)

var (
	modulusBits uint32 = config.DefaultModulusBits
	modulusSeed uint64 = config.DefaultSeed
	modulusHex  bool
)

// modulusCmd represents the modulus command.
var modulusCmd = &cobra.Command{
	Use:   "modulus",
	Short: "Print the modulus generated from a seed",
	Long: `Modulus prints the RSA modulus that run and eval generate for the given seed
and bit length. The same seed always yields the same modulus.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := modulus.Generate(int(modulusBits), rng.NewChaCha20(modulusSeed))
		if err != nil {
			return err
		}
		if modulusHex {
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", n)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), n.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modulusCmd)

	modulusCmd.Flags().Uint32Var(&modulusBits, "bits", modulusBits, "bit length of the modulus")
	modulusCmd.Flags().Uint64Var(&modulusSeed, "seed", modulusSeed, "seed of the modulus generator")
	modulusCmd.Flags().BoolVar(&modulusHex, "hex", false, "print in hex")
}
