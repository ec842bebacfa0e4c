// Package proving evaluates the VDF and computes its Wesolowski proof.
package proving

import (
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/hashing"
	"github.com/spacemeshos/vdf/shared"
)

// Evaluate derives a generator from input, squares it t times and proves the result.
//
// The proof algorithm and the parameters are checked before any group
// operation is performed. On error no output is returned.
func Evaluate(g *group.Group, input []byte, t uint64, k uint32, opts ...OptionFunc) (*shared.Output, error) {
	options, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	if t == 0 {
		return nil, shared.ConfigError{Param: "t", Expected: "> 0", Given: "0"}
	}
	if k == 0 {
		return nil, shared.ConfigError{Param: "k", Expected: "> 0", Given: "0"}
	}

	logger := options.logger.With(
		zap.Uint64("t", t),
		zap.Uint32("k", k),
		zap.Stringer("algorithm", options.algorithm),
	)

	gen, err := hashing.HashToGroup(g, input)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	y := RepeatedSquare(g, gen, t)
	logger.Debug("proving: evaluated", zap.Duration("duration", time.Since(start)))

	l, err := hashing.HashToPrime(gen, y, 2*int(k))
	if err != nil {
		return nil, fmt.Errorf("proving: challenge prime: %w", err)
	}

	start = time.Now()
	proof := Prove(g, gen, l, t)
	logger.Debug("proving: generated proof",
		zap.Duration("duration", time.Since(start)),
		zap.Int("proofSize", len(proof.Bytes())),
	)

	return &shared.Output{
		G:     gen,
		Y:     y,
		Proof: proof,
	}, nil
}

// RepeatedSquare returns base^(2^t) in g. Every step depends on the previous one.
func RepeatedSquare(g *group.Group, base *big.Int, t uint64) *big.Int {
	y := g.Canonical(base)
	for i := uint64(0); i < t; i++ {
		y = g.Square(y)
	}
	return y
}

// Prove returns gen^floor(2^t / l) in g.
//
// The quotient is never formed. Long division of 2^t by l yields one quotient
// bit per step, and the accumulator is squared and conditionally multiplied by
// gen as each bit is produced.
func Prove(g *group.Group, gen, l *big.Int, t uint64) *big.Int {
	b := g.Canonical(gen)
	x := g.Identity()
	r := big.NewInt(1)
	for i := uint64(0); i < t; i++ {
		r.Lsh(r, 1)
		carry := r.Cmp(l) >= 0
		if carry {
			r.Sub(r, l)
		}

		x = g.Square(x)
		if carry {
			x = g.Mul(x, b)
		}
	}
	return x
}
