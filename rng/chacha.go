// Package rng provides the seeded bit generator used for reproducible modulus generation.
package rng

import (
	"encoding/binary"
	"io"
	"math/bits"

	"golang.org/x/crypto/chacha20"
)

const (
	pcgMul = 6364136223846793005
	pcgInc = 11634580027462260723

	wordSize  = 4
	blockSize = 64
)

var _ io.Reader = (*ChaCha20)(nil)

// ChaCha20 is a deterministic generator producing the ChaCha20 keystream
// (20 rounds, zero nonce, block counter from 0) under a key expanded from a
// 64-bit seed with PCG32.
//
// The output is consumed in whole 32-bit words: a read whose length is not a
// multiple of 4 discards the unused tail of its last word. Two generators
// built from the same seed and read with the same sequence of lengths always
// produce the same bytes.
//
// ChaCha20 is not safe for concurrent use.
type ChaCha20 struct {
	cipher *chacha20.Cipher
	block  [blockSize]byte
	pos    int
}

// NewChaCha20 returns a generator seeded with seed.
func NewChaCha20(seed uint64) *ChaCha20 {
	key := expandSeed(seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		// Key and nonce sizes are constants.
		panic(err)
	}
	return &ChaCha20{
		cipher: c,
		pos:    blockSize,
	}
}

// expandSeed stretches a 64-bit seed into a 256-bit key with the PCG32 output function.
func expandSeed(state uint64) [chacha20.KeySize]byte {
	var key [chacha20.KeySize]byte
	for i := 0; i < len(key); i += wordSize {
		state = state*pcgMul + pcgInc
		xorshifted := uint32(((state >> 18) ^ state) >> 27)
		rot := int(state >> 59)
		binary.LittleEndian.PutUint32(key[i:], bits.RotateLeft32(xorshifted, -rot))
	}
	return key
}

// Read fills p with keystream bytes. It never fails.
func (c *ChaCha20) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		var word [wordSize]byte
		c.nextWord(word[:])
		n += copy(p[n:], word[:])
	}
	return n, nil
}

// Uint64 returns the next two words as a little-endian 64-bit value.
func (c *ChaCha20) Uint64() uint64 {
	var b [8]byte
	c.nextWord(b[:4])
	c.nextWord(b[4:])
	return binary.LittleEndian.Uint64(b[:])
}

func (c *ChaCha20) nextWord(dst []byte) {
	if c.pos == blockSize {
		clear(c.block[:])
		c.cipher.XORKeyStream(c.block[:], c.block[:])
		c.pos = 0
	}
	copy(dst, c.block[c.pos:c.pos+wordSize])
	c.pos += wordSize
}
