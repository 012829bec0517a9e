// Package song holds the parsed pattern data of a tracker module, which is the
// input of the event-stream codec.
//
// A Song is produced by a module parser (see the xm package) and is treated as
// read-only by everything downstream.
package song

import (
	"fmt"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/symbol"
)

// MaxChannels is the largest channel count a packed module can hold.
const MaxChannels = 0xFFFF

// Pattern is one pattern of the song.
//
// Channels is indexed [channel][row]. A channel may store fewer than NumRows
// rows; missing rows are empty.
type Pattern struct {
	NumRows  int
	Channels [][]symbol.Row
}

// Row returns the row stored at (channel, row), or an empty row if the
// pattern does not store it.
func (p *Pattern) Row(channel, row int) symbol.Row {
	if channel < 0 || channel >= len(p.Channels) {
		return symbol.Row{}
	}

	rows := p.Channels[channel]
	if row < 0 || row >= len(rows) {
		return symbol.Row{}
	}

	return rows[row]
}

// Song is the song structure: channel count, pattern order and patterns.
type Song struct {
	// NumChannels is the number of channels of every pattern.
	NumChannels int
	// PatternOrder lists pattern indexes in playback order. Patterns may appear
	// more than once.
	PatternOrder []int
	// RestartPosition is the index into PatternOrder where playback loops to.
	RestartPosition int
	// Patterns holds every pattern, including unused ones.
	Patterns []Pattern
	// Tempo and BPM are the initial playback speed.
	Tempo int
	BPM   int
}

// Validate checks that the pattern order only references existing patterns
// and that the channel count is usable.
func (s *Song) Validate() error {
	if s.NumChannels <= 0 || s.NumChannels > MaxChannels {
		return fmt.Errorf("%w: %d", errs.ErrInvalidChannelCount, s.NumChannels)
	}

	for i, p := range s.PatternOrder {
		if p < 0 || p >= len(s.Patterns) {
			return fmt.Errorf("%w: order %d references pattern %d of %d",
				errs.ErrInvalidPatternIndex, i, p, len(s.Patterns))
		}
	}

	if len(s.PatternOrder) > 0 && (s.RestartPosition < 0 || s.RestartPosition >= len(s.PatternOrder)) {
		return fmt.Errorf("%w: restart position %d of %d",
			errs.ErrInvalidPatternIndex, s.RestartPosition, len(s.PatternOrder))
	}

	return nil
}

// NumEvents returns the number of rows each channel plays through the whole
// pattern order.
func (s *Song) NumEvents() int {
	n := 0
	for _, p := range s.PatternOrder {
		if p >= 0 && p < len(s.Patterns) {
			n += s.Patterns[p].NumRows
		}
	}

	return n
}

// RestartRow returns the channel event index that RestartPosition points at.
func (s *Song) RestartRow() int {
	n := 0
	for i := 0; i < s.RestartPosition && i < len(s.PatternOrder); i++ {
		p := s.PatternOrder[i]
		if p >= 0 && p < len(s.Patterns) {
			n += s.Patterns[p].NumRows
		}
	}

	return n
}
