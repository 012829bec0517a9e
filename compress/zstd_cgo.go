//go:build gozstd && cgo

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

const gozstdLevel = 19

// Compress compresses the payload using the cgo zstd binding.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, gozstdLevel), nil
}

// Decompress decompresses a Zstd payload of size bytes using the cgo zstd
// binding.
func (c ZstdCompressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkSize(c.Type(), 0, size)
	}
	if err := checkBound(c.Type(), len(data), size, zstdMaxExpansion); err != nil {
		return nil, err
	}

	decompressed, err := gozstd.Decompress(make([]byte, 0, size), data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	if err := checkSize(c.Type(), len(decompressed), size); err != nil {
		return nil, err
	}

	return decompressed, nil
}
