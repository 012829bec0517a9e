package compress

import (
	"fmt"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/format"
)

// Compressor compresses the payload of a packed module.
//
// The payload is the concatenation of every channel's event block. Those
// blocks are already entropy-poor on the symbol level, but repeated row
// dictionaries and slice dictionaries across channels still leave room for a
// general-purpose codec.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller, except for the no-op codec
	//     which returns data itself
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload compressed by the matching Compressor.
//
// Example:
//
//	codec, _ := compress.GetCodec(header.Flag.Compression())
//	payload, err := codec.Decompress(data, int(header.PayloadSize))
//	if err != nil {
//	    return fmt.Errorf("decompress payload: %w", err)
//	}
type Decompressor interface {
	// Decompress decompresses data into a payload of exactly size bytes.
	//
	// The container header records the uncompressed payload size, so every
	// codec can allocate its output once and reject data that decodes to a
	// different size with errs.ErrPayloadSizeMismatch.
	Decompress(data []byte, size int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor

	// Type returns the compression type the codec implements.
	Type() format.CompressionType
}

// CompressionStats describes one payload compression.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: ErrInvalidCompression for unknown types
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}

// Compress compresses data with the built-in codec of compressionType and
// reports the sizes.
func Compress(compressionType format.CompressionType, data []byte) ([]byte, CompressionStats, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	out, err := codec.Compress(data)
	if err != nil {
		return nil, CompressionStats{}, fmt.Errorf("%s compression failed: %w", compressionType, err)
	}

	return out, CompressionStats{
		Algorithm:      compressionType,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(out)),
	}, nil
}

// Decompress decompresses data with the built-in codec of compressionType.
func Decompress(compressionType format.CompressionType, data []byte, size int) ([]byte, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	return codec.Decompress(data, size)
}

// Maximum expansion of each codec: a decoded payload is never larger than the
// compressed input times this factor.
const (
	lz4MaxExpansion  = 255     // one 255 length byte per 255 match bytes
	zstdMaxExpansion = 1 << 15 // a 4 byte RLE block decodes to at most 128 KiB
	s2MaxExpansion   = 1 << 23 // a 4 byte repeat copies just over 16 MiB
)

// checkBound rejects a size that compressedLen bytes cannot decode to, before
// any output buffer of that size is allocated.
func checkBound(codec format.CompressionType, compressedLen, size, maxExpansion int) error {
	if size < 0 || int64(size) > int64(compressedLen)*int64(maxExpansion) {
		return fmt.Errorf("%w: %s cannot expand %d bytes to %d",
			errs.ErrPayloadSizeMismatch, codec, compressedLen, size)
	}

	return nil
}

func checkSize(codec format.CompressionType, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s produced %d bytes, want %d", errs.ErrPayloadSizeMismatch, codec, got, want)
	}

	return nil
}
