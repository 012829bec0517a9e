package section

import (
	"github.com/arloliu/umpack/endian"
	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/format"
)

// Flag is the packed options and compression fields of the header.
type Flag struct {
	// Options is a packed field for various options.
	// Bit 0 is the short-gap flag, 1 means Dictionary indexes below the gap
	// slot count encode runs of empty rows.
	// Bit 1 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 2-3 are reserved for future use, must be set to 0.
	// Bit 4-15 are magic number to identify the format, 0xA710 for v1.
	Options uint16

	// CompressionType is the payload compression.
	CompressionType uint8
}

// NewFlag creates a Flag with short gaps enabled, little-endian fields and
// no payload compression.
func NewFlag() Flag {
	flag := Flag{
		Options:         MagicModuleV1Opt,
		CompressionType: CompressionNone,
	}
	flag.SetShortGaps(true)
	flag.WithLittleEndian()

	return flag
}

// HasShortGaps returns whether short-gap symbols are enabled.
func (f Flag) HasShortGaps() bool {
	return (f.Options & ShortGapsMask) != 0
}

// SetShortGaps enables or disables short-gap symbols.
func (f *Flag) SetShortGaps(enabled bool) {
	if enabled {
		f.Options |= ShortGapsMask
	} else {
		f.Options &^= ShortGapsMask
	}
}

// IsLittleEndian returns whether the header and index are little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the header and index are big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// GetMagicNumber returns the magic number from the Options field.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// IsValidMagicNumber checks if the magic number is valid.
func (f Flag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicModuleV1Opt
}

// Compression returns the payload compression.
func (f Flag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the payload compression.
func (f *Flag) SetCompression(compression format.CompressionType) {
	f.CompressionType = uint8(compression)
}

// Validate checks if the flag contains valid values.
func (f Flag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidMagicNumber
	}

	if f.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.Compression().IsValid() {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}
