package proving

import (
	"crypto/rand"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/hashing"
	"github.com/spacemeshos/vdf/modulus"
	"github.com/spacemeshos/vdf/rng"
	"github.com/spacemeshos/vdf/shared"
	"github.com/spacemeshos/vdf/verifying"
)

// Generated with rng.NewChaCha20(1) and modulus.Generate(256, ...).
const testModulus = "47998851674399271097094390486359856737620810711832111565687977916254862643229"

func testGroup(tb testing.TB) *group.Group {
	n, ok := new(big.Int).SetString(testModulus, 10)
	require.True(tb, ok)
	return group.New(n)
}

func TestEvaluate_GoldenVector(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)

	out, err := Evaluate(g, []byte("hello vdf"), 100, 16, WithLogger(zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))))
	r.NoError(err)
	r.Equal("19549059352826039713079282710679517426648238468106029095455092229325789464713", out.G.String())
	r.Equal("17154886974869398340147619245351238450144469733848946944336613979579874814430", out.Y.String())
	r.Equal("7216622608889800053974097484260947812623693161090927065785122604955873260362", out.Proof.String())
	r.Equal(len(out.Proof.Bytes()), out.ProofSize())

	l, err := hashing.HashToPrime(out.G, out.Y, 32)
	r.NoError(err)
	r.EqualValues(4012443481, l.Int64())
}

func TestEvaluate_SingleSquaring(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)

	// The challenge prime is 3 and 2^1 / 3 = 0, so the proof is the identity.
	out, err := Evaluate(g, nil, 1, 1)
	r.NoError(err)
	r.Equal("8530510481930554621411760052867676301053632753683221090384828184483878577146", out.Y.String())
	r.Zero(out.Proof.Cmp(g.Identity()))
}

func TestEvaluate_Verifies512(t *testing.T) {
	r := require.New(t)

	n, err := modulus.Generate(512, rng.NewChaCha20(2024))
	r.NoError(err)
	g := group.New(n)

	input := make([]byte, 32)
	_, err = rand.Read(input)
	r.NoError(err)

	out, err := Evaluate(g, input, 1000, 128)
	r.NoError(err)

	ok, err := verifying.Verify(g, out.G, out.Y, out.Proof, 1000, 128)
	r.NoError(err)
	r.True(ok)
}

func TestRepeatedSquare(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)
	base := big.NewInt(7)

	for _, steps := range []uint64{0, 1, 2, 10, 257} {
		exp := new(big.Int).Lsh(big.NewInt(1), uint(steps))
		r.Zero(g.Exp(base, exp).Cmp(RepeatedSquare(g, base, steps)), "t: %d", steps)
	}
}

func TestProve_MatchesQuotient(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)
	gen := big.NewInt(11)

	for _, tc := range []struct {
		t uint64
		l int64
	}{
		{t: 1, l: 3},
		{t: 10, l: 7},
		{t: 100, l: 4012443481},
		{t: 333, l: 65537},
	} {
		l := big.NewInt(tc.l)
		q := new(big.Int).Lsh(big.NewInt(1), uint(tc.t))
		q.Div(q, l)
		r.Zero(g.Exp(gen, q).Cmp(Prove(g, gen, l, tc.t)), "t: %d, l: %d", tc.t, tc.l)
	}
}

func TestEvaluate_UnsupportedAlgorithm(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)

	start := time.Now()
	out, err := Evaluate(g, []byte("x"), 1<<62, 128, WithProofAlgorithm(shared.ProofAlg5))
	r.ErrorIs(err, shared.ErrUnsupportedProofAlgorithm)
	r.Nil(out)
	r.Less(time.Since(start), time.Second)

	_, err = Evaluate(g, []byte("x"), 10, 16, WithProofAlgorithm("alg9"))
	r.ErrorIs(err, shared.ErrUnsupportedProofAlgorithm)
}

func TestEvaluate_InvalidParams(t *testing.T) {
	r := require.New(t)
	g := testGroup(t)

	_, err := Evaluate(g, []byte("x"), 0, 16)
	r.ErrorIs(err, shared.ErrInvalidParam)

	_, err = Evaluate(g, []byte("x"), 10, 0)
	r.ErrorIs(err, shared.ErrInvalidParam)

	_, err = Evaluate(g, []byte("x"), 10, 16, WithLogger(nil))
	r.Error(err)
}

// Evaluation has to do the sequential work: doubling t must roughly double the time.
func TestEvaluate_ScalesWithT(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	r := require.New(t)

	n, err := modulus.Generate(1024, rng.NewChaCha20(7))
	r.NoError(err)
	g := group.New(n)

	measure := func(steps uint64) time.Duration {
		best := time.Duration(1<<63 - 1)
		for i := 0; i < 5; i++ {
			start := time.Now()
			_, err := Evaluate(g, []byte("timing"), steps, 64)
			r.NoError(err)
			best = min(best, time.Since(start))
		}
		return best
	}

	tt := []struct {
		short, long uint64
		ratio       float64
	}{
		{short: 1000, long: 2000, ratio: 1.8},
		{short: 2000, long: 4000, ratio: 1.5},
	}
	for _, tc := range tt {
		short := measure(tc.short)
		long := measure(tc.long)
		r.GreaterOrEqual(float64(long)/float64(short), tc.ratio,
			"t=%d: %v, t=%d: %v", tc.short, short, tc.long, long)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	n, err := modulus.Generate(1024, rng.NewChaCha20(1))
	require.NoError(b, err)
	g := group.New(n)

	const steps = 1 << 12
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Evaluate(g, []byte("bench"), steps, 128); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportMetric(float64(b.Elapsed().Nanoseconds())/float64(b.N*steps), "ns/squaring")
}
