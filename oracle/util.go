package oracle

import "github.com/spacemeshos/sha256-simd"

// Digest returns the SHA-256 digest of the concatenation of the given byte arrays.
func Digest(byteArrays ...[]byte) []byte {
	hh := sha256.New()
	for _, ba := range byteArrays {
		hh.Write(ba)
	}
	return hh.Sum(nil)
}
