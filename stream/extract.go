package stream

import (
	"fmt"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/song"
	"github.com/arloliu/umpack/symbol"
)

// ExtractRows returns the rows one channel plays, walking the pattern order
// from start to end. Rows a pattern does not store are empty.
func ExtractRows(s *song.Song, channel int) ([]symbol.Row, error) {
	if channel < 0 || channel >= s.NumChannels {
		return nil, fmt.Errorf("%w: %d of %d", errs.ErrInvalidChannelIndex, channel, s.NumChannels)
	}

	rows := make([]symbol.Row, 0, s.NumEvents())
	for i, idx := range s.PatternOrder {
		if idx < 0 || idx >= len(s.Patterns) {
			return nil, fmt.Errorf("%w: order %d references pattern %d of %d",
				errs.ErrInvalidPatternIndex, i, idx, len(s.Patterns))
		}

		p := &s.Patterns[idx]
		for r := range p.NumRows {
			rows = append(rows, p.Row(channel, r))
		}
	}

	return rows, nil
}

// Extract builds the uncompressed stream of one channel.
func Extract(s *song.Song, channel int, cfg Config) (*Stream, error) {
	rows, err := ExtractRows(s, channel)
	if err != nil {
		return nil, err
	}

	st, err := New(rows, cfg)
	if err != nil {
		return nil, err
	}
	st.Channel = channel

	return st, nil
}
