package stream

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/song"
	"github.com/arloliu/umpack/symbol"
)

func TestStream_Compress_RepeatedPattern(t *testing.T) {
	s := &song.Song{
		NumChannels:  1,
		PatternOrder: []int{0, 1, 0, 2},
		Patterns: []song.Pattern{
			{NumRows: 16, Channels: [][]symbol.Row{repeatRow(rowA, 16)}},
			{NumRows: 16},
			{NumRows: 16, Channels: [][]symbol.Row{{}}},
		},
	}
	rows, err := ExtractRows(s, 0)
	require.NoError(t, err)
	require.Len(t, rows, 64)

	st, err := Extract(s, 0, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, st.Compress())

	block := []symbol.Symbol{symbol.RowEvent(rowA), symbol.RLE(15), symbol.RowEvent(emptyRow), symbol.RLE(15)}
	require.Equal(t, block, st.SlicePool)
	require.Equal(t, []SliceEntry{{Offset: 0, Length: 4}}, st.Slices)
	require.Equal(t, []symbol.Symbol{symbol.Reference(0), symbol.Reference(0)}, st.Symbols)
	require.Equal(t, []SliceMatch{{Slot: 0, Length: 4, Positions: []int{0, 4}}}, st.Matches)
	require.Empty(t, st.RowDict)

	got, err := st.Expand()
	require.NoError(t, err)
	require.Equal(t, rows, got)

	data, err := st.AppendBlock(nil)
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x00,                               // row dictionary
		0x04, 0xE1, 0x3C, 0xCF, 0xE0, 0xCF, // slice dictionary
		0x01, 0x00, 0x00, 0x00, // slice table
		0x80, 0x80, // main sequence
	}, data)
}

func TestStream_CompressSlices_ShortStream(t *testing.T) {
	inputs := [][]symbol.Row{
		nil,
		{rowB},
		{rowB, rowB},
		{rowB, rowC, rowB},
		{rowB, rowC, rowD, rowF, rowB, rowC, rowD},
	}

	for _, rows := range inputs {
		s := newTestStream(t, rows, configWithPasses(PassSlices))
		want := append([]symbol.Symbol{}, s.Symbols...)

		require.NoError(t, s.Compress())
		require.Equal(t, want, s.Symbols)
		require.Empty(t, s.Slices)
		require.Empty(t, s.SlicePool)
		require.Empty(t, s.Matches)
		require.Len(t, s.Stats, 1)
		require.Equal(t, s.Stats[0].SizeBefore, s.Stats[0].SizeAfter)
	}
}

func TestStream_CompressSlices_Phrase(t *testing.T) {
	phrase := make([]symbol.Row, 5)
	for i := range phrase {
		phrase[i] = symbol.Row{Note: uint8(10 + i), Instrument: 2} //nolint:gosec
	}
	rows := concatRows(phrase, phrase, phrase)

	s := newTestStream(t, rows, configWithPasses(PassSlices))
	require.NoError(t, s.Compress())

	require.Equal(t, []symbol.Symbol{symbol.Reference(0), symbol.Reference(0), symbol.Reference(0)}, s.Symbols)
	require.Equal(t, []SliceMatch{{Slot: 0, Length: 5, Positions: []int{0, 5, 10}}}, s.Matches)
	require.Len(t, s.SlicePool, 5)

	got, err := s.Expand()
	require.NoError(t, err)
	require.Equal(t, rows, got)
}

// Replaying every registration against the stream before the pass must
// reproduce the final stream, with non-overlapping occurrences that match the
// registered content.
func TestStream_CompressSlices_Replay(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint: gosec

	for range 30 {
		rows := randomRows(rng, 100+rng.Intn(500))
		s := newTestStream(t, rows, DefaultConfig())
		s.CompressRLE()
		s.CompressDictionary()

		replay := append([]symbol.Symbol(nil), s.Symbols...)
		require.NoError(t, s.CompressSlices())
		require.LessOrEqual(t, len(s.Slices), DefaultConfig().MaxSlices)
		require.LessOrEqual(t, len(s.SlicePool), DefaultConfig().MaxSlicePool)

		for _, m := range s.Matches {
			e := s.Slices[m.Slot]
			require.Equal(t, m.Length, int(e.Length))

			content := s.SlicePool[e.Offset : e.Offset+e.Length]
			require.False(t, symbol.ContainsReference(content))
			require.False(t, content[0].IsRLE())

			require.GreaterOrEqual(t, len(m.Positions), 2)
			for j, pos := range m.Positions {
				if j > 0 {
					require.LessOrEqual(t, m.Positions[j-1]+m.Length, pos)
				}
				require.Equal(t, content, replay[pos:pos+m.Length])
			}

			replay = replaceOccurrences(replay, m.Positions, m.Length, symbol.Reference(uint8(m.Slot))) //nolint:gosec
		}
		require.Equal(t, s.Symbols, replay)

		got, err := s.Expand()
		require.NoError(t, err)
		require.Equal(t, rows, got)
	}
}

func TestStream_CompressSlices_Limits(t *testing.T) {
	rows := randomRows(rand.New(rand.NewSource(3)), 2000) //nolint: gosec

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no slices", func(c *Config) { c.MaxSlices = 0 }},
		{"two slices", func(c *Config) { c.MaxSlices = 2 }},
		{"small pool", func(c *Config) { c.MaxSlicePool = 20 }},
		{"exact length", func(c *Config) { c.MinSliceLength, c.MaxSliceLength = 6, 6 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			s := newTestStream(t, rows, cfg)
			require.NoError(t, s.Compress())

			require.LessOrEqual(t, len(s.Slices), cfg.MaxSlices)
			require.LessOrEqual(t, len(s.SlicePool), cfg.MaxSlicePool)
			for _, e := range s.Slices {
				require.GreaterOrEqual(t, int(e.Length), cfg.MinSliceLength)
				require.LessOrEqual(t, int(e.Length), cfg.MaxSliceLength)
			}

			got, err := s.Expand()
			require.NoError(t, err)
			require.Equal(t, rows, got)
		})
	}
}

func TestStream_registerSlice(t *testing.T) {
	row := symbol.RowEvent
	s := newTestStream(t, nil, DefaultConfig())

	long := []symbol.Symbol{row(rowB), row(rowC), row(rowB), row(rowC), row(rowD)}
	slot, err := s.registerSlice(long)
	require.NoError(t, err)
	require.Equal(t, 0, slot)

	slot, err = s.registerSlice(long)
	require.NoError(t, err)
	require.Equal(t, 0, slot)
	require.Len(t, s.SlicePool, 5)

	// Content already in the dictionary is shared.
	slot, err = s.registerSlice(long[1:])
	require.NoError(t, err)
	require.Equal(t, 1, slot)
	require.Len(t, s.SlicePool, 5)
	require.Equal(t, SliceEntry{Offset: 1, Length: 4}, s.Slices[1])

	slot, err = s.registerSlice([]symbol.Symbol{row(rowF), row(rowA), row(rowF), row(rowA)})
	require.NoError(t, err)
	require.Equal(t, 2, slot)
	require.Len(t, s.SlicePool, 9)

	_, err = s.registerSlice([]symbol.Symbol{row(rowB), symbol.Reference(0), row(rowC), row(rowD)})
	require.ErrorIs(t, err, errs.ErrNestedReference)

	_, err = s.registerSlice(long[:3])
	require.ErrorIs(t, err, errs.ErrSliceLengthOutOfRange)
}

func TestSearchIndex(t *testing.T) {
	row := symbol.RowEvent
	symbols := []symbol.Symbol{
		row(rowA), row(rowB), row(rowC), row(rowD),
		row(rowF),
		row(rowA), row(rowB), row(rowC), row(rowD),
	}

	idx := newSearchIndex(4)
	idx.rebuild(symbols)
	require.Equal(t, []int{0, 5}, idx.candidates(symbols, 0))
	require.Equal(t, []int{0, 5}, idx.candidates(symbols, 5))
	require.Equal(t, []int{1}, idx.candidates(symbols, 1))
	require.Nil(t, idx.candidates(symbols, 6))
	require.Zero(t, idx.collisions())
	require.Equal(t, 5, idx.prefixes())

	// Rebuilding drops stale positions.
	idx.rebuild(symbols[:4])
	require.Equal(t, []int{0}, idx.candidates(symbols, 0))
	require.Equal(t, 1, idx.prefixes())
}
