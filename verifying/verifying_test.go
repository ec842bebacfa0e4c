package verifying

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/spacemeshos/vdf/group"
	"github.com/spacemeshos/vdf/shared"
)

// Generated with rng.NewChaCha20(1) and modulus.Generate(256, ...).
const testModulus = "47998851674399271097094390486359856737620810711832111565687977916254862643229"

// Evaluation of "hello vdf" with t = 100 and k = 16 in the group above.
const (
	testG     = "19549059352826039713079282710679517426648238468106029095455092229325789464713"
	testY     = "17154886974869398340147619245351238450144469733848946944336613979579874814430"
	testProof = "7216622608889800053974097484260947812623693161090927065785122604955873260362"
)

const (
	testT = 100
	testK = 16
)

func mustInt(tb testing.TB, s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	require.True(tb, ok, "invalid number %q", s)
	return v
}

func testOutput(tb testing.TB) (*group.Group, *shared.Output) {
	return group.New(mustInt(tb, testModulus)), &shared.Output{
		G:     mustInt(tb, testG),
		Y:     mustInt(tb, testY),
		Proof: mustInt(tb, testProof),
	}
}

func TestVerify(t *testing.T) {
	r := require.New(t)
	g, out := testOutput(t)

	ok, err := Verify(g, out.G, out.Y, out.Proof, testT, testK, WithLogger(zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))))
	r.NoError(err)
	r.True(ok)

	ok, err = VerifyOutput(g, out, testT, testK)
	r.NoError(err)
	r.True(ok)
}

func TestVerify_Tampered(t *testing.T) {
	r := require.New(t)
	g, out := testOutput(t)
	one := big.NewInt(1)

	flippedY := new(big.Int).Xor(out.Y, one)
	ok, err := Verify(g, out.G, flippedY, out.Proof, testT, testK)
	r.NoError(err)
	r.False(ok)

	flippedProof := new(big.Int).Xor(out.Proof, one)
	ok, err = Verify(g, out.G, out.Y, flippedProof, testT, testK)
	r.NoError(err)
	r.False(ok)

	ok, err = Verify(g, out.G, out.Y, out.Proof, testT+1, testK)
	r.NoError(err)
	r.False(ok)

	ok, err = Verify(g, out.G, out.Y, out.Proof, testT, testK+1)
	r.NoError(err)
	r.False(ok)
}

func TestVerify_UnsupportedAlgorithm(t *testing.T) {
	g, out := testOutput(t)

	ok, err := VerifyOutput(g, out, testT, testK, WithProofAlgorithm(shared.ProofAlg5))
	require.ErrorIs(t, err, shared.ErrUnsupportedProofAlgorithm)
	require.False(t, ok)
}

func TestVerify_InvalidParams(t *testing.T) {
	r := require.New(t)
	g, out := testOutput(t)

	_, err := Verify(g, out.G, out.Y, out.Proof, 0, testK)
	r.ErrorIs(err, shared.ErrInvalidParam)

	_, err = Verify(g, out.G, out.Y, out.Proof, testT, 0)
	r.ErrorIs(err, shared.ErrInvalidParam)

	_, err = VerifyOutput(g, nil, testT, testK)
	r.Error(err)

	_, err = Verify(g, out.G, nil, out.Proof, testT, testK)
	r.Error(err)
}

func BenchmarkVerify(b *testing.B) {
	g, out := testOutput(b)
	for i := 0; i < b.N; i++ {
		if ok, err := Verify(g, out.G, out.Y, out.Proof, testT, testK); err != nil || !ok {
			b.Fatal("verification failed", err)
		}
	}
}
