// Package hash wraps xxHash64 for the hashes umpack stores or indexes by.
package hash

import "github.com/cespare/xxhash/v2"

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Checksum32 returns the low 32 bits of the xxHash64 of data. It is the
// payload checksum stored in the container header.
func Checksum32(data []byte) uint32 {
	return uint32(xxhash.Sum64(data)) //nolint:gosec
}
