package pack

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/arloliu/umpack/compress"
	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/internal/hash"
	"github.com/arloliu/umpack/internal/options"
	"github.com/arloliu/umpack/internal/pool"
	"github.com/arloliu/umpack/section"
	"github.com/arloliu/umpack/song"
	"github.com/arloliu/umpack/stream"
	"github.com/arloliu/umpack/symbol"
)

// ChannelStats describes how one channel was packed.
type ChannelStats struct {
	Channel int
	// Events is the number of rows the channel plays.
	Events int
	// RawSize is the block size with every row stored as a RowEvent.
	RawSize int
	// BlockSize is the size of the packed block.
	BlockSize int
	// Symbols is the length of the packed main sequence.
	Symbols int
	// DictionaryEntries and Slices are the sizes of the block's side tables.
	DictionaryEntries int
	Slices            int
	// Passes holds one entry per executed compression pass.
	Passes []stream.PassStats
}

// Encoder packs songs into the container format.
//
// Channels are compressed one after another and independently of each other.
//
// Note: Encoder is NOT thread-safe. Stats refers to the last Encode call.
type Encoder struct {
	*EncoderConfig

	stats        []ChannelStats
	payloadStats compress.CompressionStats
}

// NewEncoder creates an Encoder configured by opts.
//
// Returns:
//   - *Encoder: Encoder ready to pack songs
//   - error: Option validation errors such as errs.ErrInvalidStreamConfiguration
//     or errs.ErrInvalidCompression
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := NewEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{EncoderConfig: cfg}, nil
}

// Stats returns per-channel statistics of the last Encode call.
func (e *Encoder) Stats() []ChannelStats {
	return e.stats
}

// PayloadStats returns the payload compression statistics of the last Encode
// call.
func (e *Encoder) PayloadStats() compress.CompressionStats {
	return e.payloadStats
}

// Encode packs s.
//
// The output is the header, the channel index and the (optionally compressed)
// payload holding every channel block in channel order.
//
// Returns:
//   - []byte: Packed module owned by the caller
//   - error: Song validation errors, stream encoding errors, or
//     errs.ErrVerificationFailed when a block does not decode to its source rows
func (e *Encoder) Encode(s *song.Song) ([]byte, error) {
	start := time.Now()

	if err := e.validateSong(s); err != nil {
		return nil, err
	}

	// validateSong bounds every narrowing conversion below.
	header := *e.header
	header.ChannelCount = uint16(s.NumChannels)        //nolint:gosec
	header.RestartPosition = uint16(s.RestartPosition) //nolint:gosec
	header.RestartRow = uint32(s.RestartRow())         //nolint:gosec
	header.Tempo = uint16(s.Tempo)                     //nolint:gosec
	header.BPM = uint16(s.BPM)                         //nolint:gosec
	header.PayloadOffset = section.PayloadOffsetFor(header.ChannelCount)

	payload := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(payload)

	entries := make([]section.ChannelEntry, s.NumChannels)
	stats := make([]ChannelStats, 0, s.NumChannels)
	for ch := range s.NumChannels {
		offset := payload.Len()
		st, err := e.encodeChannel(s, ch, payload)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		entries[ch] = section.ChannelEntry{
			EventCount: uint32(st.Events),              //nolint:gosec
			Offset:     uint32(offset),                 //nolint:gosec
			Length:     uint32(payload.Len() - offset), //nolint:gosec
		}
		stats = append(stats, st)
	}

	if int64(payload.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes", errs.ErrTableTooLarge, payload.Len())
	}
	header.PayloadSize = uint32(payload.Len()) //nolint:gosec
	header.Checksum = hash.Checksum32(payload.Bytes())

	compressed, cstats, err := compress.Compress(header.Flag.Compression(), payload.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}

	out := make([]byte, int(header.PayloadOffset)+len(compressed))
	copy(out, header.Bytes())
	pos := section.ChannelIndexOffset
	for i := range entries {
		pos = entries[i].WriteToSlice(out, pos, e.engine)
	}
	copy(out[pos:], compressed)

	e.stats = stats
	e.payloadStats = cstats

	e.logger.Debug("module packed",
		slog.Int("channels", s.NumChannels),
		slog.Int("events", s.NumEvents()),
		slog.Int("payload_size", int(header.PayloadSize)),
		slog.String("compression", cstats.Algorithm.String()),
		slog.Int("compressed_size", len(compressed)),
		slog.Int("size", len(out)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return out, nil
}

// validateSong checks that s fits the container fields.
func (e *Encoder) validateSong(s *song.Song) error {
	if s == nil {
		return fmt.Errorf("%w: nil song", errs.ErrInvalidModuleFormat)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if s.RestartPosition > math.MaxUint16 {
		return fmt.Errorf("%w: restart position %d", errs.ErrInvalidPatternIndex, s.RestartPosition)
	}
	if s.Tempo < 0 || s.Tempo > math.MaxUint16 || s.BPM < 0 || s.BPM > math.MaxUint16 {
		return fmt.Errorf("%w: tempo %d, bpm %d", errs.ErrInvalidModuleFormat, s.Tempo, s.BPM)
	}
	if int64(s.NumEvents()) > math.MaxUint32 {
		return fmt.Errorf("%w: %d events per channel", errs.ErrInvalidModuleFormat, s.NumEvents())
	}

	return nil
}

// encodeChannel compresses one channel and appends its block to payload.
func (e *Encoder) encodeChannel(s *song.Song, ch int, payload *pool.ByteBuffer) (ChannelStats, error) {
	rows, err := stream.ExtractRows(s, ch)
	if err != nil {
		return ChannelStats{}, err
	}

	st, err := stream.New(rows, e.streamCfg)
	if err != nil {
		return ChannelStats{}, err
	}
	st.Channel = ch
	st.SetLogger(e.logger)
	rawSize := st.EncodedSize()

	if err := st.Compress(); err != nil {
		return ChannelStats{}, err
	}

	block := pool.GetBlockBuffer()
	defer pool.PutBlockBuffer(block)

	block.Grow(st.EncodedSize())
	if block.B, err = st.AppendBlock(block.B); err != nil {
		return ChannelStats{}, err
	}

	if e.verify {
		if err := e.verifyBlock(block.Bytes(), rows); err != nil {
			return ChannelStats{}, err
		}
	}
	payload.MustWrite(block.Bytes())

	stats := ChannelStats{
		Channel:           ch,
		Events:            len(rows),
		RawSize:           rawSize,
		BlockSize:         block.Len(),
		Symbols:           len(st.Symbols),
		DictionaryEntries: len(st.RowDict),
		Slices:            len(st.Slices),
		Passes:            st.Stats,
	}

	e.logger.Debug("channel packed",
		slog.Int("channel", ch),
		slog.Int("events", stats.Events),
		slog.Int("raw_size", stats.RawSize),
		slog.Int("block_size", stats.BlockSize),
		slog.Int("dictionary_entries", stats.DictionaryEntries),
		slog.Int("slices", stats.Slices),
	)

	return stats, nil
}

// verifyBlock parses block back and checks that it expands to rows.
func (e *Encoder) verifyBlock(block []byte, rows []symbol.Row) error {
	parsed, n, err := stream.ParseBlock(block, len(rows), e.streamCfg)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrVerificationFailed, err)
	}
	if n != len(block) {
		return fmt.Errorf("%w: parsed %d of %d block bytes", errs.ErrVerificationFailed, n, len(block))
	}

	decoded, err := parsed.Expand()
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrVerificationFailed, err)
	}
	if !slices.Equal(decoded, rows) {
		return fmt.Errorf("%w: %d rows decoded, %d expected", errs.ErrVerificationFailed, len(decoded), len(rows))
	}

	return nil
}
