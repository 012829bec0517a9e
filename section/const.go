package section

import "github.com/arloliu/umpack/format"

const (
	// Bit masks of the 16-bit options field
	ShortGapsMask    = 0x0001 // Mask for short-gap symbols bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicModuleV1Opt is the version 1 magic number of the packed module format.
	MagicModuleV1Opt = 0xA710

	// Payload compression, byte 2 of the header
	CompressionNone = uint8(format.CompressionNone) // CompressionNone stores the payload as is.
	CompressionZstd = uint8(format.CompressionZstd) // CompressionZstd compresses the payload with Zstandard.
	CompressionS2   = uint8(format.CompressionS2)   // CompressionS2 compresses the payload with S2.
	CompressionLZ4  = uint8(format.CompressionLZ4)  // CompressionLZ4 compresses the payload with LZ4.
)

// offset and section sizes in the packed module
const (
	HeaderSize         = 28         // fixed header size in bytes
	ChannelEntrySize   = 12         // fixed channel index entry size in bytes
	ChannelIndexOffset = HeaderSize // byte offset where the channel index starts
)
