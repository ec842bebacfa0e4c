package shared

import (
	"fmt"
	"math/big"
)

// ProofAlgorithm identifies the algorithm used to compute a Wesolowski proof.
type ProofAlgorithm string

const (
	// ProofAlg4 computes the proof with on-the-fly long division of 2^t by the challenge prime.
	ProofAlg4 ProofAlgorithm = "alg4"

	// ProofAlg5 is the windowed variant. It is recognized but not implemented.
	ProofAlg5 ProofAlgorithm = "alg5"
)

// Validate returns nil if the algorithm is implemented.
func (a ProofAlgorithm) Validate() error {
	switch a {
	case ProofAlg4:
		return nil
	case ProofAlg5:
		return fmt.Errorf("%w: %v is not implemented", ErrUnsupportedProofAlgorithm, a)
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrUnsupportedProofAlgorithm, string(a))
	}
}

func (a ProofAlgorithm) String() string {
	return string(a)
}

// Output is the result of a VDF evaluation.
type Output struct {
	G     *big.Int // generator derived from the input
	Y     *big.Int // G^(2^t)
	Proof *big.Int
}

// ProofSize returns the length of the proof's big-endian encoding, in bytes.
func (o *Output) ProofSize() int {
	return len(o.Proof.Bytes())
}
