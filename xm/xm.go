// Package xm reads the pattern data of FastTracker 2 extended modules (.xm)
// into a song.Song.
//
// Only the module header, the pattern order and the patterns are decoded.
// Instruments and samples follow the patterns in the file and are ignored.
package xm

import (
	"bytes"
	"fmt"

	"github.com/arloliu/umpack/endian"
	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/song"
	"github.com/arloliu/umpack/symbol"
)

// IDText starts every extended module.
const IDText = "Extended Module: "

// Fixed offsets of the module header.
const (
	headerSizeOffset  = 60
	songLengthOffset  = 64
	orderTableOffset  = 80
	orderTableSize    = 256
	separatorOffset   = 37
	separator         = 0x1A
	minFileSize       = orderTableOffset + orderTableSize
	patternHeaderSize = 9
	maxRowsPerPattern = 256
)

// Header is the fixed part of the module header.
type Header struct {
	Name            string
	TrackerName     string
	Version         uint16
	HeaderSize      uint32
	SongLength      uint16
	RestartPosition uint16
	NumChannels     uint16
	NumPatterns     uint16
	NumInstruments  uint16
	Flags           uint16
	Tempo           uint16
	BPM             uint16
}

// Parse decodes the header and patterns of an extended module.
func Parse(data []byte) (*song.Song, error) {
	engine := endian.GetLittleEndianEngine()

	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	s := &song.Song{
		NumChannels:     int(h.NumChannels),
		RestartPosition: int(h.RestartPosition),
		PatternOrder:    make([]int, h.SongLength),
		Patterns:        make([]song.Pattern, h.NumPatterns),
		Tempo:           int(h.Tempo),
		BPM:             int(h.BPM),
	}

	for i := range s.PatternOrder {
		s.PatternOrder[i] = int(data[orderTableOffset+i])
	}

	pos := headerSizeOffset + int(h.HeaderSize)
	for i := range s.Patterns {
		if pos+patternHeaderSize > len(data) {
			return nil, fmt.Errorf("%w: pattern %d header at %d", errs.ErrTruncatedData, i, pos)
		}

		headerLen := int(engine.Uint32(data[pos : pos+4]))
		numRows := int(engine.Uint16(data[pos+5 : pos+7]))
		packedSize := int(engine.Uint16(data[pos+7 : pos+9]))

		if headerLen < patternHeaderSize || numRows > maxRowsPerPattern {
			return nil, fmt.Errorf("%w: pattern %d header", errs.ErrInvalidModuleFormat, i)
		}

		start := pos + headerLen
		end := start + packedSize
		if end > len(data) {
			return nil, fmt.Errorf("%w: pattern %d data", errs.ErrTruncatedData, i)
		}

		pattern, err := parsePattern(data[start:end], numRows, s.NumChannels)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		s.Patterns[i] = pattern
		pos = end
	}

	// Some trackers store a restart position past the song end.
	if s.RestartPosition >= len(s.PatternOrder) {
		s.RestartPosition = 0
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// ParseHeader decodes the fixed module header.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < minFileSize {
		return Header{}, fmt.Errorf("%w: %d bytes", errs.ErrTruncatedData, len(data))
	}

	if !bytes.HasPrefix(data, []byte(IDText)) || data[separatorOffset] != separator {
		return Header{}, fmt.Errorf("%w: missing extended module signature", errs.ErrInvalidModuleFormat)
	}

	engine := endian.GetLittleEndianEngine()
	h := Header{
		Name:            trimName(data[17:37]),
		TrackerName:     trimName(data[38:58]),
		Version:         engine.Uint16(data[58:60]),
		HeaderSize:      engine.Uint32(data[60:64]),
		SongLength:      engine.Uint16(data[64:66]),
		RestartPosition: engine.Uint16(data[66:68]),
		NumChannels:     engine.Uint16(data[68:70]),
		NumPatterns:     engine.Uint16(data[70:72]),
		NumInstruments:  engine.Uint16(data[72:74]),
		Flags:           engine.Uint16(data[74:76]),
		Tempo:           engine.Uint16(data[76:78]),
		BPM:             engine.Uint16(data[78:80]),
	}

	if h.SongLength > orderTableSize {
		return Header{}, fmt.Errorf("%w: song length %d", errs.ErrInvalidModuleFormat, h.SongLength)
	}

	if h.NumChannels == 0 {
		return Header{}, fmt.Errorf("%w: no channels", errs.ErrInvalidModuleFormat)
	}

	if headerSizeOffset+int(h.HeaderSize) > len(data) {
		return Header{}, fmt.Errorf("%w: header size %d", errs.ErrTruncatedData, h.HeaderSize)
	}

	return h, nil
}

// parsePattern unpacks pattern data. Notes are stored row by row, channel by
// channel. A byte with the high bit set is a mask of the fields that follow;
// otherwise it is the note of a full five-byte entry.
func parsePattern(data []byte, numRows, numChannels int) (song.Pattern, error) {
	p := song.Pattern{
		NumRows:  numRows,
		Channels: make([][]symbol.Row, numChannels),
	}

	if len(data) == 0 {
		return p, nil
	}

	for ch := range p.Channels {
		p.Channels[ch] = make([]symbol.Row, numRows)
	}

	pos := 0
	read := func() (uint8, error) {
		if pos >= len(data) {
			return 0, errs.ErrTruncatedData
		}
		b := data[pos]
		pos++

		return b, nil
	}

	for row := 0; row < numRows && pos < len(data); row++ {
		for ch := 0; ch < numChannels && pos < len(data); ch++ {
			first, _ := read()

			var fields [5]uint8
			if first&0x80 != 0 {
				for i := range fields {
					if first&(1<<i) == 0 {
						continue
					}
					v, err := read()
					if err != nil {
						return p, err
					}
					fields[i] = v
				}
			} else {
				fields[0] = first
				for i := 1; i < len(fields); i++ {
					v, err := read()
					if err != nil {
						return p, err
					}
					fields[i] = v
				}
			}

			p.Channels[ch][row] = symbol.Row{
				Note:        fields[0],
				Instrument:  fields[1],
				Volume:      fields[2],
				EffectType:  fields[3],
				EffectParam: fields[4],
			}
		}
	}

	return p, nil
}

func trimName(b []byte) string {
	return string(bytes.TrimRight(b, "\x00 "))
}
