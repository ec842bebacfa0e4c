package primality

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustInt(t *testing.T, s string, base int) *big.Int {
	v, ok := new(big.Int).SetString(s, base)
	require.True(t, ok, "invalid number %q", s)
	return v
}

func TestIsProbablePrime_Primes(t *testing.T) {
	seed := []byte("test")

	p25519 := new(big.Int).Lsh(big.NewInt(1), 255)
	p25519.Sub(p25519, big.NewInt(19))

	primes := map[string]*big.Int{
		"2":           big.NewInt(2),
		"3":           big.NewInt(3),
		"5":           big.NewInt(5),
		"97":          big.NewInt(97),
		"2^255-19":    p25519,
		"secp256k1 p": mustInt(t, "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16),
		"secp256k1 n": mustInt(t, "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16),
		"P-256 p":     mustInt(t, "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", 16),
	}
	for name, p := range primes {
		require.True(t, IsProbablePrime(p, DefaultRounds, seed), name)
	}
}

func TestIsProbablePrime_Composites(t *testing.T) {
	seed := []byte("test")

	p := new(big.Int).Lsh(big.NewInt(1), 127)
	p.Sub(p, big.NewInt(1))
	q := new(big.Int).Lsh(big.NewInt(1), 128)
	q.Sub(q, big.NewInt(159))

	composites := map[string]*big.Int{
		"0":   big.NewInt(0),
		"1":   big.NewInt(1),
		"4":   big.NewInt(4),
		"9":   big.NewInt(9),
		"561": big.NewInt(561), // Carmichael
		"p*q": new(big.Int).Mul(p, q),
		"rsa": mustInt(t, "47998851674399271097094390486359856737620810711832111565687977916254862643229", 10),
	}
	for name, c := range composites {
		require.False(t, IsProbablePrime(c, DefaultRounds, seed), name)
	}
}

func TestIsProbablePrime_AgreesWithStdlib(t *testing.T) {
	r := require.New(t)
	for i := int64(0); i < 2000; i++ {
		n := big.NewInt(i)
		r.Equal(n.ProbablyPrime(20), IsProbablePrime(n, DefaultRounds, []byte("small")), "n: %d", i)
	}
}

func TestIsProbablePrime_SeedIndependent(t *testing.T) {
	r := require.New(t)

	p := mustInt(t, "256863492764967173468914983455679795481", 10)
	for _, seed := range []string{"", "a", "b", "another seed"} {
		r.True(IsProbablePrime(p, DefaultRounds, []byte(seed)))
	}
}

func BenchmarkIsProbablePrime(b *testing.B) {
	p, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	seed := []byte("bench")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		IsProbablePrime(p, DefaultRounds, seed)
	}
}
