// Package umpack packs the pattern data of tracker modules into compact
// per-channel event streams.
//
// Every channel of a song is flattened into the sequence of rows it plays and
// compressed independently with three passes: run-length encoding of repeated
// rows, a row dictionary for frequent rows, and references to repeated
// slices of the stream. The channel blocks are stored in a small container
// that a player can decode one channel at a time.
//
// # Basic Usage
//
// Packing an extended module:
//
//	import "github.com/arloliu/umpack"
//
//	data, _ := os.ReadFile("song.xm")
//	packed, err := umpack.PackXM(data)
//	if err != nil {
//	    return err
//	}
//
// Unpacking:
//
//	m, err := umpack.Unpack(packed)
//	if err != nil {
//	    return err
//	}
//	for ch, rows := range m.Channels {
//	    fmt.Printf("channel %d: %d events\n", ch, len(rows))
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the pack
// package. For tuning the compression passes or reading single channels, use
// the pack and stream packages directly.
package umpack

import (
	"github.com/arloliu/umpack/format"
	"github.com/arloliu/umpack/pack"
	"github.com/arloliu/umpack/song"
	"github.com/arloliu/umpack/xm"
)

var defaultOptions = []pack.EncoderOption{
	pack.WithLittleEndian(),
	pack.WithShortGaps(true),
	pack.WithCompression(format.CompressionNone),
	pack.WithVerify(true),
}

// NewEncoder creates an encoder with the default options followed by opts.
//
// Parameters:
//   - opts: Options overriding the defaults
//
// Returns:
//   - *pack.Encoder: Encoder ready to pack songs
//   - error: Option validation errors
func NewEncoder(opts ...pack.EncoderOption) (*pack.Encoder, error) {
	allOpts := make([]pack.EncoderOption, 0, len(defaultOptions)+len(opts))
	allOpts = append(allOpts, defaultOptions...)
	allOpts = append(allOpts, opts...)

	return pack.NewEncoder(allOpts...)
}

// NewDecoder creates a decoder for a packed module.
func NewDecoder(data []byte) (*pack.Decoder, error) {
	return pack.NewDecoder(data)
}

// Pack packs s.
func Pack(s *song.Song, opts ...pack.EncoderOption) ([]byte, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(s)
}

// PackXM parses an extended module and packs its patterns.
func PackXM(data []byte, opts ...pack.EncoderOption) ([]byte, error) {
	s, err := xm.Parse(data)
	if err != nil {
		return nil, err
	}

	return Pack(s, opts...)
}

// Unpack decodes every channel of a packed module.
func Unpack(data []byte) (pack.Module, error) {
	dec, err := NewDecoder(data)
	if err != nil {
		return pack.Module{}, err
	}

	return dec.Decode()
}
