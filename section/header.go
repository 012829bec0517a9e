package section

import (
	"fmt"

	"github.com/arloliu/umpack/errs"
)

// Header represents the fixed-size header at the start of a packed module.
type Header struct {
	// ChannelCount is the number of channels, and of channel index entries.
	ChannelCount uint16 // byte offset 4-5
	// RestartPosition is the pattern order index playback loops to.
	RestartPosition uint16 // byte offset 6-7
	// RestartRow is the channel event index RestartPosition maps to.
	RestartRow uint32 // byte offset 8-11
	// PayloadOffset is the byte offset of the payload. It always follows the
	// channel index directly.
	PayloadOffset uint32 // byte offset 12-15
	// PayloadSize is the size of the payload before compression.
	PayloadSize uint32 // byte offset 16-19
	// Checksum is the low 32 bits of the xxHash64 of the uncompressed payload.
	Checksum uint32 // byte offset 20-23
	// Tempo is the initial ticks per row.
	Tempo uint16 // byte offset 24-25
	// BPM is the initial beats per minute.
	BPM uint16 // byte offset 26-27

	// Flag is a packed field for options, magic number and compression.
	Flag Flag // byte offset 0-2
}

// NewHeader creates a header for channelCount channels. The payload size and
// checksum are set when the encoder finishes.
func NewHeader(channelCount uint16) *Header {
	return &Header{
		Flag:          NewFlag(),
		ChannelCount:  channelCount,
		PayloadOffset: PayloadOffsetFor(channelCount),
	}
}

// PayloadOffsetFor returns the payload offset of a module with channelCount
// channels.
func PayloadOffsetFor(channelCount uint16) uint32 {
	return ChannelIndexOffset + uint32(channelCount)*ChannelEntrySize
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly 28 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 28 bytes, or flag and layout
//     validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options are always little-endian since they carry the endianness bit.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.CompressionType = data[2]
	if err := h.Flag.Validate(); err != nil {
		return err
	}
	if data[3] != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	engine := h.Flag.GetEndianEngine()
	h.ChannelCount = engine.Uint16(data[4:6])
	h.RestartPosition = engine.Uint16(data[6:8])
	h.RestartRow = engine.Uint32(data[8:12])
	h.PayloadOffset = engine.Uint32(data[12:16])
	h.PayloadSize = engine.Uint32(data[16:20])
	h.Checksum = engine.Uint32(data[20:24])
	h.Tempo = engine.Uint16(data[24:26])
	h.BPM = engine.Uint16(data[26:28])

	return h.Validate()
}

// Validate checks the layout fields of the header.
func (h *Header) Validate() error {
	if h.ChannelCount == 0 {
		return errs.ErrInvalidChannelCount
	}

	if want := PayloadOffsetFor(h.ChannelCount); h.PayloadOffset != want {
		return fmt.Errorf("%w: %d, want %d", errs.ErrInvalidPayloadOffset, h.PayloadOffset, want)
	}

	return nil
}

// Bytes serializes the Header into a byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.CompressionType
	engine.PutUint16(b[4:6], h.ChannelCount)
	engine.PutUint16(b[6:8], h.RestartPosition)
	engine.PutUint32(b[8:12], h.RestartRow)
	engine.PutUint32(b[12:16], h.PayloadOffset)
	engine.PutUint32(b[16:20], h.PayloadSize)
	engine.PutUint32(b[20:24], h.Checksum)
	engine.PutUint16(b[24:26], h.Tempo)
	engine.PutUint16(b[26:28], h.BPM)

	return b
}

// ParseHeader parses a Header from the start of a byte slice.
//
// Parameters:
//   - data: Byte slice starting with the header (must be at least 28 bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize or validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
