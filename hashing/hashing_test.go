package hashing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/primality"
	"github.com/spacemeshos/vdf/shared"
)

// Generated with rng.NewChaCha20(1) and modulus.Generate(256, ...).
const testModulus = "47998851674399271097094390486359856737620810711832111565687977916254862643229"

func mustInt(t testing.TB, s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "invalid number %q", s)
	return v
}

func testGroup(t testing.TB) *group.Group {
	return group.New(mustInt(t, testModulus))
}

func TestHashToGroup_GoldenVectors(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)

	v, err := HashToGroup(g, []byte("hello vdf"))
	r.NoError(err)
	r.Equal("19549059352826039713079282710679517426648238468106029095455092229325789464713", v.String())

	v, err = HashToGroup(g, nil)
	r.NoError(err)
	r.Equal("14186090931964783782793932478069184090184329053126694170920572847619326803358", v.String())
}

func TestHashToGroup_Rejection(t *testing.T) {
	r := require.New(t)

	// Counter 0 is rejected for this modulus and input.
	v, err := HashToGroup(group.New(big.NewInt(143)), []byte("x"))
	r.NoError(err)
	r.EqualValues(6, v.Int64())

	v, err = HashToGroup(group.New(big.NewInt(15)), []byte("abc"))
	r.NoError(err)
	r.EqualValues(4, v.Int64())
}

func TestHashToGroup_CoprimeAndCanonical(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)
	n := g.Modulus()
	half := new(big.Int).Rsh(n, 1)

	for i := 0; i < 64; i++ {
		v, err := HashToGroup(g, []byte{byte(i), 0xaa})
		r.NoError(err)
		r.Zero(v.Cmp(g.Canonical(v)))
		r.LessOrEqual(v.Cmp(half), 0)
		r.Positive(v.Cmp(big.NewInt(1)))
		r.Zero(new(big.Int).GCD(nil, nil, v, n).Cmp(big.NewInt(1)))
	}
}

func TestHashToGroup_Deterministic(t *testing.T) {
	r := require.New(t)

	a, err := HashToGroup(testGroup(t), []byte("input"))
	r.NoError(err)
	b, err := HashToGroup(testGroup(t), []byte("input"))
	r.NoError(err)
	r.Zero(a.Cmp(b))

	c, err := HashToGroup(testGroup(t), []byte("input2"))
	r.NoError(err)
	r.NotZero(a.Cmp(c))
}

func TestHashToGroup_DegenerateModulus(t *testing.T) {
	// Every residue of 3 folds to 0 or 1.
	_, err := HashToGroup(group.New(big.NewInt(3)), []byte("x"))
	require.ErrorIs(t, err, shared.ErrAttemptsExhausted)
}

func TestHashToPrime_GoldenVectors(t *testing.T) {
	gen := mustInt(t, "19549059352826039713079282710679517426648238468106029095455092229325789464713")
	y := big.NewInt(12345)

	tt := []struct {
		bits     int
		expected string
	}{
		{bits: 2, expected: "3"},
		{bits: 3, expected: "5"},
		{bits: 16, expected: "40037"},
		{bits: 128, expected: "248162014019065574316417910541574721889"},
		{bits: 256, expected: "86757187157442288727975310766476084465605061366425275456244105890093127793983"},
	}
	for _, tc := range tt {
		l, err := HashToPrime(gen, y, tc.bits)
		require.NoError(t, err)
		require.Equal(t, tc.expected, l.String(), "bits: %d", tc.bits)
	}
}

func TestHashToPrime_BitLength(t *testing.T) {
	r := require.New(t)
	gen := big.NewInt(2)

	for _, bits := range []int{16, 17, 31, 64, 128, 255, 256} {
		l, err := HashToPrime(gen, big.NewInt(int64(bits)), bits)
		r.NoError(err)
		r.Equal(bits, l.BitLen())
		r.EqualValues(1, l.Bit(0))
		r.True(l.ProbablyPrime(20))
		r.True(primality.IsProbablePrime(l, primality.DefaultRounds, []byte("recheck")))
	}
}

func TestHashToPrime_BindsBothInputs(t *testing.T) {
	r := require.New(t)

	a, err := HashToPrime(big.NewInt(10), big.NewInt(20), 128)
	r.NoError(err)
	b, err := HashToPrime(big.NewInt(10), big.NewInt(20), 128)
	r.NoError(err)
	r.Zero(a.Cmp(b))

	c, err := HashToPrime(big.NewInt(20), big.NewInt(10), 128)
	r.NoError(err)
	r.NotZero(a.Cmp(c))
}

func TestHashToPrime_InvalidBitLength(t *testing.T) {
	for _, bits := range []int{-1, 0, 1} {
		_, err := HashToPrime(big.NewInt(2), big.NewInt(3), bits)
		require.ErrorIs(t, err, shared.ErrInvalidBitLength)
	}
}

func BenchmarkHashToPrime(b *testing.B) {
	gen := big.NewInt(2)
	for i := 0; i < b.N; i++ {
		if _, err := HashToPrime(gen, big.NewInt(int64(i)), 256); err != nil {
			b.Fatal(err)
		}
	}
}
