// Package hashing implements the two domain hashes of the VDF: bytes to group
// element, and a (generator, output) pair to a prime of fixed bit length.
//
// Both are rejection samplers over an oracle.Stream. Their outputs depend only
// on their inputs, so a prover and a verifier always derive the same values.
package hashing

import (
	"fmt"
	"math/big"

	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/oracle"
	"github.com/spacemeshos/vdf/primality"
	"github.com/spacemeshos/vdf/shared"
)

// Domain separation tags.
var (
	GroupTag = []byte("residue")
	PrimeTag = []byte("prime")
)

const (
	// MaxGroupAttempts bounds the counter of HashToGroup. Almost every residue
	// of an RSA modulus is accepted, so hitting it means the modulus is degenerate.
	MaxGroupAttempts = 1 << 16

	// MaxPrimeAttempts bounds the counter of HashToPrime.
	MaxPrimeAttempts = 1 << 20
)

var bigOne = big.NewInt(1)

// HashToGroup maps input to a canonical element of g coprime to its modulus.
//
// Candidate i is canonical(SHA-256("residue" || input || BE64(i)) mod N); the
// first candidate that is not 0 or 1 and is coprime to N is returned.
func HashToGroup(g *group.Group, input []byte) (*big.Int, error) {
	n := g.Modulus()
	candidates := oracle.NewStream(oracle.Counter64, GroupTag, input)
	gcd := new(big.Int)
	for ctr := uint64(0); ctr < MaxGroupAttempts; ctr++ {
		c := g.Canonical(candidates.BlockInt(ctr))
		if c.Sign() == 0 || c.Cmp(bigOne) == 0 {
			continue
		}
		if gcd.GCD(nil, nil, c, n).Cmp(bigOne) != 0 {
			continue
		}
		return c, nil
	}
	return nil, fmt.Errorf("hashing: group element after %d candidates: %w", MaxGroupAttempts, shared.ErrAttemptsExhausted)
}

// HashToPrime maps the pair (gen, y) to a probable prime of exactly `bits` bits.
//
// For counter i the seed is SHA-256("prime" || gen || y || BE64(i)), with gen
// and y in minimal big-endian encoding. The seed is expanded into `bits` bits,
// the top and bottom bits are set, and the candidate is accepted if it passes
// Miller-Rabin with witnesses derived from the same seed.
func HashToPrime(gen, y *big.Int, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("%w: expected at least 2, given %d", shared.ErrInvalidBitLength, bits)
	}

	seeds := oracle.NewStream(oracle.Counter64, PrimeTag, gen.Bytes(), y.Bytes())
	for ctr := uint64(0); ctr < MaxPrimeAttempts; ctr++ {
		seed := seeds.Block(ctr)
		c := oracle.NewStream(oracle.Counter64, seed).Bits(bits)
		c.SetBit(c, bits-1, 1)
		c.SetBit(c, 0, 1)

		if primality.IsProbablePrime(c, primality.DefaultRounds, seed) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("hashing: %d-bit prime after %d candidates: %w", bits, MaxPrimeAttempts, shared.ErrAttemptsExhausted)
}
