package group

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testGroup(t testing.TB) *Group {
	n, ok := new(big.Int).SetString("47998851674399271097094390486359856737620810711832111565687977916254862643229", 10)
	require.True(t, ok)
	return New(n)
}

func TestCanonical_Small(t *testing.T) {
	r := require.New(t)
	g := New(big.NewInt(143))

	r.EqualValues(10, g.Canonical(big.NewInt(10)).Int64())
	r.EqualValues(3, g.Canonical(big.NewInt(140)).Int64())
	r.EqualValues(71, g.Canonical(big.NewInt(71)).Int64())
	r.EqualValues(71, g.Canonical(big.NewInt(72)).Int64())
	r.EqualValues(0, g.Canonical(big.NewInt(143)).Int64())
	r.EqualValues(1, g.Canonical(big.NewInt(-1)).Int64())
}

func TestCanonical_IdempotentAndBounded(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)
	half := new(big.Int).Rsh(g.Modulus(), 1)

	rnd := rand.New(rand.NewSource(1))
	bound := new(big.Int).Lsh(g.Modulus(), 2)
	for i := 0; i < 500; i++ {
		v := new(big.Int).Rand(rnd, bound)
		c := g.Canonical(v)
		r.Equal(c, g.Canonical(c))
		r.LessOrEqual(c.Cmp(half), 0)
		r.GreaterOrEqual(c.Sign(), 0)
	}
}

func TestMulSquare(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)
	n := g.Modulus()

	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		a := g.Canonical(new(big.Int).Rand(rnd, n))
		b := g.Canonical(new(big.Int).Rand(rnd, n))

		r.Equal(g.Canonical(new(big.Int).Mul(a, b)), g.Mul(a, b))
		r.Equal(g.Mul(a, a), g.Square(a))
		r.Equal(g.Mul(a, b), g.Mul(b, a))
		r.Equal(a, g.Mul(a, g.Identity()))

		// Negation is invisible in the quotient.
		negA := new(big.Int).Sub(n, a)
		r.Equal(g.Mul(a, b), g.Mul(negA, b))
	}
}

func TestExp(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)
	n := g.Modulus()

	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		base := new(big.Int).Rand(rnd, n)
		exp := new(big.Int).Rand(rnd, new(big.Int).Lsh(big.NewInt(1), 200))

		expected := g.Canonical(new(big.Int).Exp(base, exp, n))
		r.Equal(expected, g.Exp(base, exp))
	}

	r.Equal(g.Identity(), g.Exp(big.NewInt(5), big.NewInt(0)))
}

func TestArgumentsNotMutated(t *testing.T) {
	r := require.New(t)
	g := New(big.NewInt(143))

	a, b := big.NewInt(140), big.NewInt(100)
	g.Mul(a, b)
	g.Square(a)
	g.Canonical(a)
	g.Exp(a, b)
	r.EqualValues(140, a.Int64())
	r.EqualValues(100, b.Int64())

	n := g.Modulus()
	n.SetInt64(7)
	r.EqualValues(143, g.Modulus().Int64())
}
