// Package errs defines the sentinel errors returned by umpack packages.
//
// Callers should compare against these values with errors.Is, since most
// packages wrap them with additional context.
package errs

import "errors"

// Symbol encoding errors. These indicate that a compression pass produced a
// symbol the byte format cannot represent.
var (
	ErrUnknownSymbol              = errors.New("unknown symbol kind")
	ErrDictionaryIndexOutOfRange  = errors.New("dictionary index out of range")
	ErrReferenceIndexOutOfRange   = errors.New("reference index out of range")
	ErrInvalidRLECount            = errors.New("invalid RLE count")
	ErrRLEOverflow                = errors.New("RLE count exceeds 32 bits")
	ErrTableTooLarge              = errors.New("table exceeds its 1-byte count")
	ErrSliceLengthOutOfRange      = errors.New("slice length out of range")
	ErrNestedReference            = errors.New("slice content contains a reference")
	ErrAdjacentRLE                = errors.New("adjacent RLE symbols")
	ErrInvalidStreamConfiguration = errors.New("invalid stream configuration")
)

// Decode errors for malformed or truncated data.
var (
	ErrTruncatedData      = errors.New("truncated data")
	ErrDanglingRLE        = errors.New("RLE symbol without a preceding row")
	ErrSliceOutOfRange    = errors.New("slice exceeds slice dictionary")
	ErrEventCountMismatch = errors.New("decoded event count mismatch")
	ErrInvalidBlock       = errors.New("invalid channel block")
	ErrVerificationFailed = errors.New("decoded events differ from source events")
)

// Song and container errors.
var (
	ErrInvalidChannelIndex  = errors.New("invalid channel index")
	ErrInvalidPatternIndex  = errors.New("invalid pattern index")
	ErrInvalidChannelCount  = errors.New("invalid channel count")
	ErrInvalidHeaderSize    = errors.New("invalid header size")
	ErrInvalidMagicNumber   = errors.New("invalid magic number")
	ErrInvalidHeaderFlags   = errors.New("invalid header flags")
	ErrInvalidPayloadOffset = errors.New("invalid payload offset")
	ErrInvalidChannelEntry  = errors.New("invalid channel index entry")
	ErrChecksumMismatch     = errors.New("payload checksum mismatch")
	ErrPayloadSizeMismatch  = errors.New("decompressed payload size mismatch")
	ErrInvalidCompression   = errors.New("invalid payload compression")
	ErrInvalidModuleFormat  = errors.New("invalid module format")
)
