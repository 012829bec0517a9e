package section

import (
	"fmt"

	"github.com/arloliu/umpack/endian"
	"github.com/arloliu/umpack/errs"
)

// ChannelEntry locates one channel's event block in the payload.
// It is a fixed size of 12 bytes.
type ChannelEntry struct {
	// EventCount is the number of rows the block expands to.
	//
	// Offset: 0, Size: 4 bytes
	EventCount uint32

	// Offset is the absolute byte offset of the block in the uncompressed
	// payload.
	//
	// Offset: 4, Size: 4 bytes
	Offset uint32

	// Length is the byte length of the block.
	//
	// Offset: 8, Size: 4 bytes
	Length uint32
}

// Bytes returns the entry as a byte slice using the specified endian engine.
func (e *ChannelEntry) Bytes(engine endian.EndianEngine) []byte {
	var b [ChannelEntrySize]byte // stack allocation, it's faster than heap allocation
	engine.PutUint32(b[0:4], e.EventCount)
	engine.PutUint32(b[4:8], e.Offset)
	engine.PutUint32(b[8:12], e.Length)

	return b[:]
}

// WriteToSlice writes to a pre-allocated slice and returns the next position.
//
// This is the most efficient method when writing multiple entries sequentially.
func (e *ChannelEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint32(data[offset:offset+4], e.EventCount)
	engine.PutUint32(data[offset+4:offset+8], e.Offset)
	engine.PutUint32(data[offset+8:offset+12], e.Length)

	return offset + ChannelEntrySize
}

// End returns the payload offset just past the block.
func (e ChannelEntry) End() uint64 {
	return uint64(e.Offset) + uint64(e.Length)
}

// ParseChannelEntry parses a ChannelEntry from a byte slice.
func ParseChannelEntry(data []byte, engine endian.EndianEngine) (ChannelEntry, error) {
	if len(data) < ChannelEntrySize {
		return ChannelEntry{}, fmt.Errorf("%w: %d bytes", errs.ErrInvalidChannelEntry, len(data))
	}

	return ChannelEntry{
		EventCount: engine.Uint32(data[0:4]),
		Offset:     engine.Uint32(data[4:8]),
		Length:     engine.Uint32(data[8:12]),
	}, nil
}

// ParseChannelIndex parses count consecutive entries and checks that every
// block lies inside a payload of payloadSize bytes.
func ParseChannelIndex(data []byte, count int, payloadSize uint32, engine endian.EndianEngine) ([]ChannelEntry, error) {
	if len(data) < count*ChannelEntrySize {
		return nil, fmt.Errorf("%w: index of %d entries needs %d bytes, got %d",
			errs.ErrInvalidChannelEntry, count, count*ChannelEntrySize, len(data))
	}

	entries := make([]ChannelEntry, count)
	for i := range entries {
		e, err := ParseChannelEntry(data[i*ChannelEntrySize:], engine)
		if err != nil {
			return nil, err
		}
		if e.End() > uint64(payloadSize) {
			return nil, fmt.Errorf("%w: channel %d block %d+%d exceeds payload of %d bytes",
				errs.ErrInvalidChannelEntry, i, e.Offset, e.Length, payloadSize)
		}
		entries[i] = e
	}

	return entries, nil
}
