package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/nullstyle/go-xdr/xdr3"

	"github.com/spacemeshos/vdf/shared"
)

// ProofFileVersion is the version written by PersistProof.
const ProofFileVersion = 1

// ProofFile is everything needed to verify an evaluation without rerunning it.
// Integers are stored in minimal big-endian encoding.
type ProofFile struct {
	Version   uint32
	Algorithm shared.ProofAlgorithm
	T         uint64
	K         uint32
	Modulus   []byte
	G         []byte
	Y         []byte
	Proof     []byte
}

// NewProofFile packs an evaluation of t squarings in the group modulo n.
func NewProofFile(n *big.Int, out *shared.Output, t uint64, k uint32, algorithm shared.ProofAlgorithm) *ProofFile {
	return &ProofFile{
		Version:   ProofFileVersion,
		Algorithm: algorithm,
		T:         t,
		K:         k,
		Modulus:   n.Bytes(),
		G:         out.G.Bytes(),
		Y:         out.Y.Bytes(),
		Proof:     out.Proof.Bytes(),
	}
}

// ModulusInt returns the stored modulus.
func (p *ProofFile) ModulusInt() *big.Int {
	return new(big.Int).SetBytes(p.Modulus)
}

// Output returns the stored evaluation output.
func (p *ProofFile) Output() *shared.Output {
	return &shared.Output{
		G:     new(big.Int).SetBytes(p.G),
		Y:     new(big.Int).SetBytes(p.Y),
		Proof: new(big.Int).SetBytes(p.Proof),
	}
}

func PersistProof(filename string, proof *ProofFile) error {
	var w bytes.Buffer
	_, err := xdr.Marshal(&w, proof)
	if err != nil {
		return fmt.Errorf("serialization failure: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(filename), OwnerReadWriteExec)
	if err != nil {
		return fmt.Errorf("dir creation failure: %w", err)
	}

	err = os.WriteFile(filename, w.Bytes(), OwnerReadWrite)
	if err != nil {
		return fmt.Errorf("write to disk failure: %w", err)
	}

	return nil
}

func FetchProof(filename string) (*ProofFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, shared.ErrProofNotExist
		}

		return nil, fmt.Errorf("read file failure: %w", err)
	}

	proof := &ProofFile{}
	_, err = xdr.Unmarshal(bytes.NewReader(data), proof)
	if err != nil {
		return nil, fmt.Errorf("deserialization failure: %w", err)
	}

	if proof.Version != ProofFileVersion {
		return nil, fmt.Errorf("%w: %d", shared.ErrProofVersion, proof.Version)
	}

	return proof, nil
}
