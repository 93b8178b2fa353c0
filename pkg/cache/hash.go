package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// hashKey returns "<op>:<sha256 hex>" over parts. Every part is preceded by
// its length, so ("ab", "c") and ("a", "bc") hash differently.
func hashKey(op string, parts ...[]byte) string {
	h := sha256.New()
	var n [binary.MaxVarintLen64]byte
	for _, p := range parts {
		h.Write(n[:binary.PutUvarint(n[:], uint64(len(p)))])
		h.Write(p)
	}
	return op + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the SHA-256 of data as 64 hex characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func intsBytes(xs []int) []byte {
	b := make([]byte, 0, len(xs)*2)
	for _, x := range xs {
		b = binary.AppendVarint(b, int64(x))
	}
	return b
}

// floatsBytes encodes weights. A nil slice and an empty one differ.
func floatsBytes(xs []float64) []byte {
	if xs == nil {
		return nil
	}
	b := make([]byte, 1, 1+len(xs)*8)
	b[0] = 'w'
	for _, x := range xs {
		b = binary.BigEndian.AppendUint64(b, math.Float64bits(x))
	}
	return b
}
