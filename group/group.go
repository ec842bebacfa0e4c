// Package group implements the multiplicative group of integers modulo an RSA
// modulus N, folded into its quotient by the subgroup {1, -1}.
//
// Every element handed out by a Group is canonical: the smaller of v mod N and
// N - (v mod N). Both representatives of a class collapse to one value, so an
// element and its negation can't be told apart by a verifier.
package group

import "math/big"

var bigOne = big.NewInt(1)

// Group is immutable after construction and safe for concurrent use.
type Group struct {
	n    *big.Int
	half *big.Int
}

// New returns the group modulo n. n must be odd and positive; this is not checked.
func New(n *big.Int) *Group {
	m := new(big.Int).Set(n)
	return &Group{
		n:    m,
		half: new(big.Int).Rsh(m, 1),
	}
}

// Modulus returns a copy of N.
func (g *Group) Modulus() *big.Int {
	return new(big.Int).Set(g.n)
}

// BitLen returns the bit length of N.
func (g *Group) BitLen() int {
	return g.n.BitLen()
}

// Canonical reduces v modulo N and folds it by negation.
func (g *Group) Canonical(v *big.Int) *big.Int {
	r := new(big.Int).Mod(v, g.n)
	return g.fold(r)
}

// fold expects r in [0, N) and may modify it.
func (g *Group) fold(r *big.Int) *big.Int {
	if r.Cmp(g.half) > 0 {
		r.Sub(g.n, r)
	}
	return r
}

// Mul returns canonical(a*b mod N).
func (g *Group) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	r.Mod(r, g.n)
	return g.fold(r)
}

// Square returns canonical(a^2 mod N).
func (g *Group) Square(a *big.Int) *big.Int {
	return g.Mul(a, a)
}

// Identity returns 1.
func (g *Group) Identity() *big.Int {
	return new(big.Int).Set(bigOne)
}

// Exp returns canonical(base^exp mod N) using left-to-right square and multiply.
// exp must be non-negative.
func (g *Group) Exp(base, exp *big.Int) *big.Int {
	b := g.Canonical(base)
	acc := g.Identity()
	for i := exp.BitLen() - 1; i >= 0; i-- {
		acc = g.Square(acc)
		if exp.Bit(i) == 1 {
			acc = g.Mul(acc, b)
		}
	}
	return acc
}

// Equal reports whether a and b represent the same group element.
func (g *Group) Equal(a, b *big.Int) bool {
	return g.Canonical(a).Cmp(g.Canonical(b)) == 0
}
