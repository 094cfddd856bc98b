// Package util contains internal helpers (hashing, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "strconv"

const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

// Fnv64a hashes b using 64-bit FNV-1a.
// Non-cryptographic; used for content fingerprinting where collisions are
// tolerable (a collision means a spurious cache hit on the wrong parameters,
// and the keyspace here is tiny compared to 64 bits).
func Fnv64a(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// HexHash formats a 64-bit hash as a fixed-width lowercase hex string.
func HexHash(h uint64) string {
	s := strconv.FormatUint(h, 16)
	for len(s) < 16 {
		s = "0" + s
	}
	return s
}
