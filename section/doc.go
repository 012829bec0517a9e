// Package section defines the binary structures of a packed module container.
//
// A packed module is a fixed header, a channel index with one fixed-size entry
// per channel, and the payload holding every channel's event block:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (28 bytes, fixed)                                │
//	├─────────────────────────────────────────────────────────┤
//	│ Channel index (N × 12 bytes)                            │
//	├─────────────────────────────────────────────────────────┤
//	│ Payload (variable, optionally compressed)               │
//	│  - channel 0 block, channel 1 block, ...                │
//	└─────────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field           | Type   | Description
//	-------|-----------------|--------|----------------------------------
//	0-1    | Options         | uint16 | Flags and magic number, always little-endian
//	2      | Compression     | uint8  | Payload compression (1=None, 2=Zstd, 3=S2, 4=LZ4)
//	3      | Reserved        | uint8  | Must be 0
//	4-5    | ChannelCount    | uint16 | Number of channels
//	6-7    | RestartPosition | uint16 | Pattern order index playback loops to
//	8-11   | RestartRow      | uint32 | Channel event index playback loops to
//	12-15  | PayloadOffset   | uint32 | Byte offset of the payload
//	16-19  | PayloadSize     | uint32 | Payload size before compression
//	20-23  | Checksum        | uint32 | Low 32 bits of xxHash64 of the uncompressed payload
//	24-25  | Tempo           | uint16 | Initial ticks per row
//	26-27  | BPM             | uint16 | Initial beats per minute
//
// Options bits:
//
//	Bit 0: Short-gap symbols (0=disabled, 1=enabled)
//	Bit 1: Endianness of the header and index fields (0=little, 1=big)
//	Bits 2-3: Reserved (must be 0)
//	Bits 4-15: Magic number (0xA710)
//
// # Channel Index Entry Format
//
//	Bytes  | Field      | Type   | Description
//	-------|------------|--------|----------------------------------
//	0-3    | EventCount | uint32 | Rows the channel block expands to
//	4-7    | Offset     | uint32 | Block offset within the uncompressed payload
//	8-11   | Length     | uint32 | Block length in bytes
//
// Offsets are absolute within the uncompressed payload, so a decoder can slice
// out any channel's block without touching the others.
package section
