package pack

import (
	"fmt"

	"github.com/arloliu/umpack/compress"
	"github.com/arloliu/umpack/endian"
	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/format"
	"github.com/arloliu/umpack/internal/hash"
	"github.com/arloliu/umpack/section"
	"github.com/arloliu/umpack/stream"
	"github.com/arloliu/umpack/symbol"
)

// Module is a fully decoded packed module.
type Module struct {
	// Channels holds the rows of every channel, indexed [channel][event].
	Channels [][]symbol.Row
	// RestartPosition is the pattern order index playback loops to.
	RestartPosition int
	// RestartRow is the channel event index RestartPosition maps to.
	RestartRow int
	// Tempo and BPM are the initial playback speed.
	Tempo int
	BPM   int
}

// Decoder reads a packed module.
//
// The header, channel index and payload checksum are validated when the
// decoder is created. Channel blocks are parsed lazily by Stream and Channel.
//
// Note: Decoder is NOT thread-safe.
type Decoder struct {
	header    section.Header
	engine    endian.EndianEngine
	entries   []section.ChannelEntry
	payload   []byte
	streamCfg stream.Config
}

// NewDecoder creates a Decoder for data.
//
// Parameters:
//   - data: Packed module produced by Encoder.Encode. The decoder may keep
//     references into data, so it must not be modified while the decoder is used.
//
// Returns:
//   - *Decoder: Decoder ready to read channels
//   - error: Header validation errors, errs.ErrInvalidChannelEntry,
//     decompression errors or errs.ErrChecksumMismatch
func NewDecoder(data []byte) (*Decoder, error) {
	d := &Decoder{}

	if err := d.parseHeader(data); err != nil {
		return nil, err
	}

	if err := d.parseIndex(data); err != nil {
		return nil, err
	}

	if err := d.parsePayload(data); err != nil {
		return nil, err
	}

	return d, nil
}

// parseHeader parses the header and derives the stream configuration of the
// channel blocks.
func (d *Decoder) parseHeader(data []byte) error {
	header, err := section.ParseHeader(data)
	if err != nil {
		return err
	}
	if len(data) < int(header.PayloadOffset) {
		return fmt.Errorf("%w: %d bytes, channel index ends at %d",
			errs.ErrInvalidPayloadOffset, len(data), header.PayloadOffset)
	}

	d.header = header
	d.engine = header.Flag.GetEndianEngine()
	d.streamCfg = stream.DefaultConfig()
	d.streamCfg.ShortGaps = header.Flag.HasShortGaps()

	return nil
}

// parseIndex parses the channel index.
func (d *Decoder) parseIndex(data []byte) error {
	entries, err := section.ParseChannelIndex(
		data[section.ChannelIndexOffset:d.header.PayloadOffset],
		int(d.header.ChannelCount),
		d.header.PayloadSize,
		d.engine,
	)
	if err != nil {
		return err
	}
	d.entries = entries

	return nil
}

// parsePayload decompresses the payload and verifies its checksum.
func (d *Decoder) parsePayload(data []byte) error {
	payload, err := compress.Decompress(d.header.Flag.Compression(), data[d.header.PayloadOffset:], int(d.header.PayloadSize))
	if err != nil {
		return fmt.Errorf("failed to decompress payload: %w", err)
	}

	if sum := hash.Checksum32(payload); sum != d.header.Checksum {
		return fmt.Errorf("%w: got %08x, want %08x", errs.ErrChecksumMismatch, sum, d.header.Checksum)
	}
	d.payload = payload

	return nil
}

// Header returns the parsed header.
func (d *Decoder) Header() section.Header {
	return d.header
}

// NumChannels returns the number of channels.
func (d *Decoder) NumChannels() int {
	return len(d.entries)
}

// Compression returns the payload compression type.
func (d *Decoder) Compression() format.CompressionType {
	return d.header.Flag.Compression()
}

// Stream parses the block of channel ch.
//
// Returns:
//   - *stream.Stream: Packed stream of the channel, with its side tables
//   - error: errs.ErrInvalidChannelIndex, block parse errors, or
//     errs.ErrInvalidBlock when the block holds trailing bytes
func (d *Decoder) Stream(ch int) (*stream.Stream, error) {
	if ch < 0 || ch >= len(d.entries) {
		return nil, fmt.Errorf("%w: %d of %d", errs.ErrInvalidChannelIndex, ch, len(d.entries))
	}

	e := d.entries[ch]
	block := d.payload[e.Offset:e.End()]
	st, n, err := stream.ParseBlock(block, int(e.EventCount), d.streamCfg)
	if err != nil {
		return nil, fmt.Errorf("channel %d: %w", ch, err)
	}
	if n != len(block) {
		return nil, fmt.Errorf("channel %d: %w: %d trailing bytes", ch, errs.ErrInvalidBlock, len(block)-n)
	}
	st.Channel = ch

	return st, nil
}

// Channel decodes the rows of channel ch.
func (d *Decoder) Channel(ch int) ([]symbol.Row, error) {
	st, err := d.Stream(ch)
	if err != nil {
		return nil, err
	}

	rows, err := st.Expand()
	if err != nil {
		return nil, fmt.Errorf("channel %d: %w", ch, err)
	}
	if len(rows) != int(d.entries[ch].EventCount) {
		return nil, fmt.Errorf("channel %d: %w: %d rows, want %d",
			ch, errs.ErrEventCountMismatch, len(rows), d.entries[ch].EventCount)
	}

	return rows, nil
}

// Decode decodes every channel.
func (d *Decoder) Decode() (Module, error) {
	m := Module{
		Channels:        make([][]symbol.Row, len(d.entries)),
		RestartPosition: int(d.header.RestartPosition),
		RestartRow:      int(d.header.RestartRow),
		Tempo:           int(d.header.Tempo),
		BPM:             int(d.header.BPM),
	}

	for ch := range d.entries {
		rows, err := d.Channel(ch)
		if err != nil {
			return Module{}, err
		}
		m.Channels[ch] = rows
	}

	return m, nil
}
