package pack

import (
	"bytes"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/umpack/format"
	"github.com/arloliu/umpack/section"
	"github.com/arloliu/umpack/song"
	"github.com/arloliu/umpack/stream"
	"github.com/arloliu/umpack/symbol"
)

// testSong builds a song that looks like tracker music: a drum channel with
// a fixed groove, a bass channel repeating short phrases, a sparse lead and
// an empty channel. Patterns store fewer rows than they play on purpose.
func testSong(seed int64) *song.Song {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec
	const numRows = 64

	kick := symbol.Row{Note: 37, Instrument: 1}
	snare := symbol.Row{Note: 40, Instrument: 2, Volume: 0x30}
	hat := symbol.Row{Note: 44, Instrument: 3, Volume: 0x20}

	s := &song.Song{
		NumChannels:     4,
		PatternOrder:    []int{0, 1, 0, 2, 1, 0, 2, 2},
		RestartPosition: 2,
		Tempo:           6,
		BPM:             125,
	}

	for range 3 {
		p := song.Pattern{NumRows: numRows, Channels: make([][]symbol.Row, 3)}

		drums := make([]symbol.Row, numRows)
		for r := range drums {
			switch {
			case r%8 == 0:
				drums[r] = kick
			case r%8 == 4:
				drums[r] = snare
			case r%2 == 0:
				drums[r] = hat
			}
		}
		p.Channels[0] = drums

		phrase := make([]symbol.Row, 8)
		for i := range phrase {
			if rng.Intn(3) > 0 {
				phrase[i] = symbol.Row{Note: uint8(36 + rng.Intn(12)), Instrument: 4} //nolint:gosec
			}
		}
		bass := make([]symbol.Row, 0, numRows)
		for len(bass) < numRows {
			bass = append(bass, phrase...)
		}
		p.Channels[1] = bass

		lead := make([]symbol.Row, numRows-rng.Intn(16))
		for r := range lead {
			if rng.Intn(6) == 0 {
				lead[r] = symbol.Row{
					Note:        uint8(60 + rng.Intn(24)), //nolint:gosec
					Instrument:  5,
					EffectType:  0x0A,
					EffectParam: uint8(rng.Intn(16)), //nolint:gosec
				}
			}
		}
		p.Channels[2] = lead

		s.Patterns = append(s.Patterns, p)
	}

	return s
}

func expectedChannels(t *testing.T, s *song.Song) [][]symbol.Row {
	t.Helper()

	channels := make([][]symbol.Row, s.NumChannels)
	for ch := range channels {
		rows, err := stream.ExtractRows(s, ch)
		require.NoError(t, err)
		channels[ch] = rows
	}

	return channels
}

func encode(t *testing.T, s *song.Song, opts ...EncoderOption) []byte {
	t.Helper()

	enc, err := NewEncoder(opts...)
	require.NoError(t, err)
	data, err := enc.Encode(s)
	require.NoError(t, err)

	return data
}

func TestEncoder_RoundTrip(t *testing.T) {
	s := testSong(1)
	want := expectedChannels(t, s)

	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, comp := range compressions {
		for _, bigEndian := range []bool{false, true} {
			name := comp.String()
			opts := []EncoderOption{WithCompression(comp)}
			if bigEndian {
				name += "/big-endian"
				opts = append(opts, WithBigEndian())
			}

			t.Run(name, func(t *testing.T) {
				data := encode(t, s, opts...)

				dec, err := NewDecoder(data)
				require.NoError(t, err)
				require.Equal(t, comp, dec.Compression())
				require.Equal(t, bigEndian, dec.Header().Flag.IsBigEndian())
				require.Equal(t, s.NumChannels, dec.NumChannels())

				m, err := dec.Decode()
				require.NoError(t, err)
				require.Equal(t, want, m.Channels)
				require.Equal(t, 2, m.RestartPosition)
				require.Equal(t, s.RestartRow(), m.RestartRow)
				require.Equal(t, 6, m.Tempo)
				require.Equal(t, 125, m.BPM)
			})
		}
	}
}

func TestEncoder_PlaybackSpeed(t *testing.T) {
	row := symbol.Row{Note: 49, Instrument: 1}
	s := &song.Song{
		NumChannels:  1,
		PatternOrder: []int{0},
		Patterns:     []song.Pattern{{NumRows: 2, Channels: [][]symbol.Row{{row, {}}}}},
		Tempo:        3,
		BPM:          150,
	}

	for _, bigEndian := range []bool{false, true} {
		var opts []EncoderOption
		if bigEndian {
			opts = append(opts, WithBigEndian())
		}

		dec, err := NewDecoder(encode(t, s, opts...))
		require.NoError(t, err)
		require.Equal(t, uint16(3), dec.Header().Tempo)
		require.Equal(t, uint16(150), dec.Header().BPM)

		m, err := dec.Decode()
		require.NoError(t, err)
		require.Equal(t, 3, m.Tempo)
		require.Equal(t, 150, m.BPM)
		require.Equal(t, [][]symbol.Row{{row, {}}}, m.Channels)
	}
}

func TestEncoder_PassesAndShortGaps(t *testing.T) {
	s := testSong(2)
	want := expectedChannels(t, s)

	passes := []stream.Pass{0, stream.PassRLE, stream.PassDictionary, stream.PassSlices,
		stream.PassRLE | stream.PassSlices, stream.PassAll}

	for _, p := range passes {
		for _, shortGaps := range []bool{true, false} {
			t.Run(p.String(), func(t *testing.T) {
				data := encode(t, s, WithPasses(p), WithShortGaps(shortGaps))

				dec, err := NewDecoder(data)
				require.NoError(t, err)
				require.Equal(t, shortGaps, dec.Header().Flag.HasShortGaps())

				m, err := dec.Decode()
				require.NoError(t, err)
				require.Equal(t, want, m.Channels)
			})
		}
	}
}

func TestEncoder_Layout(t *testing.T) {
	s := testSong(3)

	enc, err := NewEncoder()
	require.NoError(t, err)
	data, err := enc.Encode(s)
	require.NoError(t, err)

	h, err := section.ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, uint16(4), h.ChannelCount)
	require.Equal(t, uint32(section.HeaderSize+4*section.ChannelEntrySize), h.PayloadOffset)
	require.Equal(t, format.CompressionNone, h.Flag.Compression())
	require.True(t, h.Flag.HasShortGaps())
	require.True(t, h.Flag.IsLittleEndian())
	require.Len(t, data, int(h.PayloadOffset)+int(h.PayloadSize))

	entries, err := section.ParseChannelIndex(data[section.HeaderSize:h.PayloadOffset], 4, h.PayloadSize, h.Flag.GetEndianEngine())
	require.NoError(t, err)

	stats := enc.Stats()
	require.Len(t, stats, 4)

	offset := uint32(0)
	for ch, e := range entries {
		require.Equal(t, offset, e.Offset, "channel %d", ch)
		require.Equal(t, uint32(s.NumEvents()), e.EventCount)
		require.Equal(t, uint32(stats[ch].BlockSize), e.Length)
		offset += e.Length
	}
	require.Equal(t, h.PayloadSize, offset)

	ps := enc.PayloadStats()
	require.Equal(t, format.CompressionNone, ps.Algorithm)
	require.Equal(t, int64(h.PayloadSize), ps.OriginalSize)
	require.Equal(t, int64(h.PayloadSize), ps.CompressedSize)
}

func TestEncoder_Stats(t *testing.T) {
	s := testSong(4)

	enc, err := NewEncoder()
	require.NoError(t, err)
	_, err = enc.Encode(s)
	require.NoError(t, err)

	dec, err := NewDecoder(encode(t, s))
	require.NoError(t, err)

	for ch, st := range enc.Stats() {
		require.Equal(t, ch, st.Channel)
		require.Equal(t, s.NumEvents(), st.Events)
		require.Len(t, st.Passes, 3)
		require.Equal(t, st.RawSize, st.Passes[0].SizeBefore)
		require.Equal(t, st.BlockSize, st.Passes[2].SizeAfter)

		parsed, err := dec.Stream(ch)
		require.NoError(t, err)
		require.Equal(t, st.BlockSize, parsed.EncodedSize())
		require.Len(t, parsed.RowDict, st.DictionaryEntries)
		require.Len(t, parsed.Slices, st.Slices)
		require.Len(t, parsed.Symbols, st.Symbols)
	}

	// The empty channel collapses to a row event and one RLE.
	empty := enc.Stats()[3]
	require.Equal(t, 2, empty.Symbols)
	require.Less(t, empty.BlockSize, empty.RawSize)

	// The drum groove repeats every pattern.
	require.Less(t, enc.Stats()[0].BlockSize, enc.Stats()[0].RawSize/2)
}

func TestEncoder_EmptyOrder(t *testing.T) {
	s := &song.Song{NumChannels: 2}

	dec, err := NewDecoder(encode(t, s))
	require.NoError(t, err)

	m, err := dec.Decode()
	require.NoError(t, err)
	require.Len(t, m.Channels, 2)
	require.Empty(t, m.Channels[0])
	require.Empty(t, m.Channels[1])
}

func TestEncoder_WithoutVerify(t *testing.T) {
	s := testSong(5)

	dec, err := NewDecoder(encode(t, s, WithVerify(false)))
	require.NoError(t, err)

	m, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, expectedChannels(t, s), m.Channels)
}

func TestEncoder_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	encode(t, testSong(6), WithLogger(logger))

	out := buf.String()
	require.Contains(t, out, "compression pass finished")
	require.Contains(t, out, "channel packed")
	require.Contains(t, out, "module packed")
	require.Contains(t, out, "pass=slices")
	require.Contains(t, out, "hash_keys=")
	require.Contains(t, out, "hash_collisions=")

	// A nil logger falls back to discarding.
	encode(t, testSong(6), WithLogger(nil))
}
