package song

import (
	"testing"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/symbol"
	"github.com/stretchr/testify/require"
)

func testSong() *Song {
	return &Song{
		NumChannels:     2,
		PatternOrder:    []int{0, 1, 0},
		RestartPosition: 1,
		Patterns: []Pattern{
			{NumRows: 4, Channels: [][]symbol.Row{{{Note: 1}, {Note: 2}}, {}}},
			{NumRows: 8, Channels: [][]symbol.Row{{}, {}}},
		},
	}
}

func TestSong_Validate(t *testing.T) {
	require.NoError(t, testSong().Validate())

	s := testSong()
	s.NumChannels = 0
	require.ErrorIs(t, s.Validate(), errs.ErrInvalidChannelCount)

	s = testSong()
	s.PatternOrder = append(s.PatternOrder, 2)
	require.ErrorIs(t, s.Validate(), errs.ErrInvalidPatternIndex)

	s = testSong()
	s.RestartPosition = 3
	require.ErrorIs(t, s.Validate(), errs.ErrInvalidPatternIndex)

	s = testSong()
	s.PatternOrder = nil
	s.RestartPosition = 0
	require.NoError(t, s.Validate())
}

func TestSong_Counts(t *testing.T) {
	s := testSong()
	require.Equal(t, 16, s.NumEvents())
	require.Equal(t, 4, s.RestartRow())

	s.RestartPosition = 0
	require.Equal(t, 0, s.RestartRow())
}

func TestPattern_Row(t *testing.T) {
	p := testSong().Patterns[0]

	require.Equal(t, symbol.Row{Note: 2}, p.Row(0, 1))
	require.True(t, p.Row(0, 3).IsEmpty(), "missing rows are empty")
	require.True(t, p.Row(1, 0).IsEmpty())
	require.True(t, p.Row(5, 0).IsEmpty(), "missing channels are empty")
	require.True(t, p.Row(0, -1).IsEmpty())
}
