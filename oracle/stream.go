package oracle

import (
	"encoding/binary"
	"math/big"

	"github.com/spacemeshos/sha256-simd"
)

// CounterWidth is the size, in bytes, of the big-endian block counter.
type CounterWidth int

const (
	Counter32 CounterWidth = 4
	Counter64 CounterWidth = 8
)

// Stream is a seeded deterministic byte stream. Block i of the stream is
//
//	SHA-256(prefix || BE(i))
//
// where BE(i) is the counter encoded with the stream's CounterWidth. Every
// derivation that needs reproducible pseudo-randomness (primality witnesses,
// hash-to-group candidates, hash-to-prime seeds and their bit expansion)
// reads from a Stream, so replaying the same prefix replays the same values.
type Stream struct {
	prefix []byte
	width  CounterWidth

	next uint64 // index of the next block Read will consume
	buf  []byte // unread remainder of the last block
}

// NewStream returns a stream whose prefix is the concatenation of the given parts.
func NewStream(width CounterWidth, prefix ...[]byte) *Stream {
	var size int
	for _, p := range prefix {
		size += len(p)
	}
	buf := make([]byte, 0, size)
	for _, p := range prefix {
		buf = append(buf, p...)
	}

	return &Stream{
		prefix: buf,
		width:  width,
	}
}

// Block returns block i of the stream. It doesn't affect the read position.
func (s *Stream) Block(i uint64) []byte {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], i)

	hh := sha256.New()
	hh.Write(s.prefix)
	hh.Write(ctr[8-int(s.width):])
	return hh.Sum(nil)
}

// BlockInt returns block i interpreted as an unsigned big-endian integer.
func (s *Stream) BlockInt(i uint64) *big.Int {
	return new(big.Int).SetBytes(s.Block(i))
}

// Read fills p with the next bytes of the stream. It never fails.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.buf) == 0 {
			s.buf = s.Block(s.next)
			s.next++
		}
		c := copy(p[n:], s.buf)
		s.buf = s.buf[c:]
		n += c
	}
	return n, nil
}

// Bits reads the next ceil(bits/8) bytes and returns their leading `bits` bits
// as an unsigned integer.
func (s *Stream) Bits(bits int) *big.Int {
	if bits <= 0 {
		return new(big.Int)
	}
	b := make([]byte, (bits+7)/8)
	_, _ = s.Read(b)

	v := new(big.Int).SetBytes(b)
	return v.Rsh(v, uint(len(b)*8-bits))
}
