package compress

import "github.com/arloliu/umpack/format"

// ZstdCompressor provides Zstandard compression, the best ratio of the
// built-in codecs on packed payloads.
//
// The pure Go implementation from klauspost/compress is used by default.
// Building with the gozstd tag and cgo enabled switches to the cgo binding
// of the reference library.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}
