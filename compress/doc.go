// Package compress provides the optional outer codecs applied to the payload
// of a packed module.
//
// A packed module is compressed in two stages:
//
//  1. The event-stream codec (package stream) rewrites every channel into
//     RLE, dictionary and slice-reference symbols.
//  2. The concatenated channel blocks are optionally compressed as a whole
//     by one of the codecs of this package.
//
// The container header records the codec and the uncompressed payload size,
// and decompression fails unless the output has exactly that size.
//
// # Supported Algorithms
//
//	Type                    | Codec           | Library
//	------------------------|-----------------|-----------------------------------------
//	format.CompressionNone  | NoOpCompressor  | -
//	format.CompressionZstd  | ZstdCompressor  | klauspost/compress/zstd (valyala/gozstd with -tags gozstd)
//	format.CompressionS2    | S2Compressor    | klauspost/compress/s2
//	format.CompressionLZ4   | LZ4Compressor   | pierrec/lz4/v4 (block format, HC level 9)
//
// Zstd gives the best ratio, LZ4 the fastest decompression. Payloads are
// written once by the packer and read by players, so every codec is tuned for
// ratio over compression speed.
//
// # Thread Safety
//
// All codec implementations are stateless values backed by pooled encoders
// and decoders, and can be shared across goroutines.
package compress
