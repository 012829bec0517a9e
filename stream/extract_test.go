package stream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/song"
	"github.com/arloliu/umpack/symbol"
)

func testSong() *song.Song {
	return &song.Song{
		NumChannels:  2,
		PatternOrder: []int{1, 0, 1},
		Patterns: []song.Pattern{
			{
				NumRows: 2,
				Channels: [][]symbol.Row{
					{rowA, rowB},
					{rowC},
				},
			},
			{
				NumRows: 3,
				Channels: [][]symbol.Row{
					{rowD, emptyRow, rowF},
				},
			},
		},
	}
}

func TestExtractRows(t *testing.T) {
	s := testSong()

	rows, err := ExtractRows(s, 0)
	require.NoError(t, err)
	require.Equal(t, []symbol.Row{rowD, emptyRow, rowF, rowA, rowB, rowD, emptyRow, rowF}, rows)

	rows, err = ExtractRows(s, 1)
	require.NoError(t, err)
	require.Equal(t, []symbol.Row{emptyRow, emptyRow, emptyRow, rowC, emptyRow, emptyRow, emptyRow, emptyRow}, rows)
	require.Len(t, rows, s.NumEvents())
}

func TestExtractRows_Errors(t *testing.T) {
	s := testSong()

	_, err := ExtractRows(s, 2)
	require.ErrorIs(t, err, errs.ErrInvalidChannelIndex)

	_, err = ExtractRows(s, -1)
	require.ErrorIs(t, err, errs.ErrInvalidChannelIndex)

	s.PatternOrder = append(s.PatternOrder, 5)
	_, err = ExtractRows(s, 0)
	require.ErrorIs(t, err, errs.ErrInvalidPatternIndex)
}

func TestExtract(t *testing.T) {
	s := testSong()

	st, err := Extract(s, 1, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 1, st.Channel)
	require.Len(t, st.Symbols, 8)

	// The source song is not modified by compression.
	require.NoError(t, st.Compress())
	require.Equal(t, testSong(), s)

	_, err = Extract(s, 0, Config{})
	require.ErrorIs(t, err, errs.ErrInvalidStreamConfiguration)
}
