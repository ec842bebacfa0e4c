// Package verifying checks Wesolowski proofs.
package verifying

import (
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/hashing"
	"github.com/spacemeshos/vdf/shared"
)

var bigTwo = big.NewInt(2)

// Verify reports whether y = gen^(2^t) in g, as attested by proof.
//
// The challenge prime l is recomputed from (gen, y) and the proof is accepted
// iff proof^l * gen^(2^t mod l) = y. A rejected proof is reported as false with
// a nil error; errors are returned only for invalid parameters or an exhausted
// prime search.
func Verify(g *group.Group, gen, y, proof *big.Int, t uint64, k uint32, opts ...OptionFunc) (bool, error) {
	options, err := applyOpts(opts...)
	if err != nil {
		return false, err
	}
	if gen == nil || y == nil || proof == nil {
		return false, errors.New("invalid `output`; expected: non-nil values, given: nil")
	}
	if t == 0 {
		return false, shared.ConfigError{Param: "t", Expected: "> 0", Given: "0"}
	}
	if k == 0 {
		return false, shared.ConfigError{Param: "k", Expected: "> 0", Given: "0"}
	}

	l, err := hashing.HashToPrime(gen, y, 2*int(k))
	if err != nil {
		return false, fmt.Errorf("verifying: challenge prime: %w", err)
	}
	r := new(big.Int).Exp(bigTwo, new(big.Int).SetUint64(t), l)

	lhs := g.Mul(g.Exp(proof, l), g.Exp(gen, r))
	if lhs.Cmp(y) != 0 {
		options.logger.Debug("verifying: proof rejected",
			zap.Uint64("t", t),
			zap.Uint32("k", k),
		)
		return false, nil
	}
	return true, nil
}

// VerifyOutput verifies an evaluation output.
func VerifyOutput(g *group.Group, out *shared.Output, t uint64, k uint32, opts ...OptionFunc) (bool, error) {
	if out == nil {
		return false, errors.New("invalid `output`; expected: non-nil, given: nil")
	}
	return Verify(g, out.G, out.Y, out.Proof, t, k, opts...)
}
