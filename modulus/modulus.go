// Package modulus generates RSA moduli for the VDF group from a caller-supplied
// bit generator. A generator seeded identically yields an identical modulus.
package modulus

import (
	"fmt"
	"io"
	"math/big"

	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/primality"
	"github.com/spacemeshos/vdf/shared"
)

const (
	// MinBits is the smallest modulus that can be generated.
	MinBits = 16

	// seedSize is the amount of witness seed material drawn per candidate.
	seedSize = 32
)

// Generate returns N = p*q where p has floor(bits/2) bits and q the remaining bits.
func Generate(bits int, rng io.Reader, opts ...OptionFunc) (*big.Int, error) {
	if bits < MinBits {
		return nil, fmt.Errorf("%w: expected at least %d, given %d", shared.ErrModulusTooSmall, MinBits, bits)
	}

	options, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}

	half := bits / 2
	p, err := generatePrime(half, rng, options)
	if err != nil {
		return nil, err
	}
	q, err := generatePrime(bits-half, rng, options)
	if err != nil {
		return nil, err
	}

	n := new(big.Int).Mul(p, q)
	options.logger.Debug("modulus: generated",
		zap.Int("bits", bits),
		zap.Int("bitLen", n.BitLen()),
	)
	return n, nil
}

// GeneratePrime returns a random prime of exactly `bits` bits drawn from rng.
func GeneratePrime(bits int, rng io.Reader, opts ...OptionFunc) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("%w: expected at least 2, given %d", shared.ErrInvalidBitLength, bits)
	}

	options, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	return generatePrime(bits, rng, options)
}

func generatePrime(bits int, rng io.Reader, options *option) (*big.Int, error) {
	buf := make([]byte, (bits+7)/8)
	seed := make([]byte, seedSize)
	excess := uint(len(buf)*8 - bits)

	candidate := new(big.Int)
	for attempt := 1; attempt <= options.maxAttempts; attempt++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, fmt.Errorf("modulus: read candidate: %w", err)
		}
		buf[0] &= 0xff >> excess

		candidate.SetBytes(buf)
		candidate.SetBit(candidate, bits-1, 1)
		candidate.SetBit(candidate, 0, 1)

		if _, err := io.ReadFull(rng, seed); err != nil {
			return nil, fmt.Errorf("modulus: read seed: %w", err)
		}

		if primality.IsProbablePrime(candidate, primality.DefaultRounds, seed) {
			options.logger.Debug("modulus: found prime",
				zap.Int("bits", bits),
				zap.Int("attempts", attempt),
			)
			return candidate, nil
		}
	}

	return nil, fmt.Errorf("modulus: %d-bit prime after %d candidates: %w", bits, options.maxAttempts, shared.ErrAttemptsExhausted)
}
