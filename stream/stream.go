package stream

import (
	"log/slog"

	"github.com/arloliu/umpack/symbol"
)

// DictEntry is one row dictionary entry.
type DictEntry struct {
	Row symbol.Row
	// Count is the number of occurrences the entry replaced. It is not
	// serialized.
	Count int
}

// SliceEntry locates one registered slice inside the slice dictionary.
type SliceEntry struct {
	Offset uint16
	Length uint16
}

// SliceMatch records one slice registration of the repeated-slice pass.
//
// Positions are indexes into the symbol sequence as it was right before the
// registration, in ascending order. Every position was replaced by
// Reference(Slot).
type SliceMatch struct {
	Slot      int
	Length    int
	Positions []int
}

// Stream is the symbol sequence of one channel together with its side tables.
//
// Note: Stream is NOT thread-safe.
type Stream struct {
	// Channel is the channel index, used for logging only.
	Channel int
	// Symbols is the main symbol sequence.
	Symbols []symbol.Symbol
	// RowDict is the row dictionary. Dictionary(DictionaryBias()+i) refers to
	// RowDict[i].
	RowDict []DictEntry
	// SlicePool is the slice dictionary: the concatenated content of every
	// registered slice.
	SlicePool []symbol.Symbol
	// Slices is the slice table. Reference(i) refers to Slices[i].
	Slices []SliceEntry
	// Matches records every slice registration in order.
	Matches []SliceMatch
	// Stats holds one entry per executed pass.
	Stats []PassStats

	cfg    Config
	logger *slog.Logger
}

// New creates a stream holding one RowEvent symbol per row.
func New(rows []symbol.Row, cfg Config) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	symbols := make([]symbol.Symbol, len(rows))
	for i, r := range rows {
		symbols[i] = symbol.RowEvent(r)
	}

	return &Stream{
		Symbols: symbols,
		cfg:     cfg,
		logger:  discardLogger,
	}, nil
}

// Config returns the configuration of the stream.
func (s *Stream) Config() Config {
	return s.cfg
}

// SetLogger sets the logger pass statistics are written to. A nil logger
// disables logging.
func (s *Stream) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = discardLogger
	}
	s.logger = logger
}

// EncodedSize returns the size of the serialized block of the stream.
func (s *Stream) EncodedSize() int {
	size := 3 // table counts
	for _, e := range s.RowDict {
		size += e.Row.EncodedSize()
	}
	size += symbol.EncodedSize(s.SlicePool)
	size += 3 * len(s.Slices)
	size += symbol.EncodedSize(s.Symbols)

	return size
}

// Clone returns a deep copy of s.
func (s *Stream) Clone() *Stream {
	c := *s
	c.Symbols = append([]symbol.Symbol(nil), s.Symbols...)
	c.RowDict = append([]DictEntry(nil), s.RowDict...)
	c.SlicePool = append([]symbol.Symbol(nil), s.SlicePool...)
	c.Slices = append([]SliceEntry(nil), s.Slices...)
	c.Stats = append([]PassStats(nil), s.Stats...)
	c.Matches = make([]SliceMatch, len(s.Matches))
	for i, m := range s.Matches {
		m.Positions = append([]int(nil), m.Positions...)
		c.Matches[i] = m
	}

	return &c
}

// Compress runs the passes selected by the configuration in order: RLE,
// dictionary, then repeated slices.
func (s *Stream) Compress() error {
	if s.cfg.Passes&PassRLE != 0 {
		s.CompressRLE()
	}

	if s.cfg.Passes&PassDictionary != 0 {
		s.CompressDictionary()
	}

	if s.cfg.Passes&PassSlices != 0 {
		if err := s.CompressSlices(); err != nil {
			return err
		}
	}

	return nil
}

func (s *Stream) rowDictSymbols() []symbol.Symbol {
	out := make([]symbol.Symbol, len(s.RowDict))
	for i, e := range s.RowDict {
		out[i] = symbol.RowEvent(e.Row)
	}

	return out
}
