package shared

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedProofAlgorithm = errors.New("unsupported proof algorithm")
	ErrModulusTooSmall           = errors.New("modulus bit length too small")
	ErrInvalidParam              = errors.New("invalid parameter")
	ErrInvalidBitLength          = errors.New("invalid bit length")
	ErrProofNotExist             = errors.New("proof doesn't exist")
	ErrProofVersion              = errors.New("unsupported proof file version")

	// ErrAttemptsExhausted is returned when a rejection sampling loop exceeds its retry bound.
	// It signals a degenerate or adversarial modulus rather than bad luck.
	ErrAttemptsExhausted = errors.New("rejection sampling attempts exhausted")
)

// ConfigError describes a configuration value that was rejected.
type ConfigError struct {
	Param    string
	Expected string
	Given    string
}

func (err ConfigError) Error() string {
	return fmt.Sprintf("invalid `%v`; expected: %v, given: %v", err.Param, err.Expected, err.Given)
}

func (err ConfigError) Unwrap() error {
	return ErrInvalidParam
}
