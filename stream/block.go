package stream

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/symbol"
)

// Block layout, all tables prefixed by a 1-byte count:
//
//	row dictionary   count, RowEvent encodings
//	slice dictionary count, symbol encodings
//	slice table      count, per entry: offset (u16 LE), length-SliceLengthBias (u8)
//	main sequence    symbol encodings up to the end of the block
const sliceEntrySize = 3

// AppendBlock appends the serialized block of the stream to dst.
//
// It fails if a table overflows its count byte, if a symbol cannot be encoded
// or if two RLE symbols are adjacent, which a reader could not split.
func (s *Stream) AppendBlock(dst []byte) ([]byte, error) {
	if len(s.RowDict) > MaxTableCount || len(s.SlicePool) > MaxTableCount || len(s.Slices) > MaxTableCount {
		return dst, fmt.Errorf("%w: %d rows, %d slice symbols, %d slices",
			errs.ErrTableTooLarge, len(s.RowDict), len(s.SlicePool), len(s.Slices))
	}
	if err := checkRLEAdjacency(s.SlicePool); err != nil {
		return dst, fmt.Errorf("slice dictionary: %w", err)
	}
	if err := checkRLEAdjacency(s.Symbols); err != nil {
		return dst, fmt.Errorf("main sequence: %w", err)
	}

	start := len(dst)
	var err error

	dst = append(dst, byte(len(s.RowDict)))
	if dst, err = symbol.AppendAll(dst, s.rowDictSymbols()); err != nil {
		return dst[:start], fmt.Errorf("row dictionary: %w", err)
	}

	dst = append(dst, byte(len(s.SlicePool)))
	if dst, err = symbol.AppendAll(dst, s.SlicePool); err != nil {
		return dst[:start], fmt.Errorf("slice dictionary: %w", err)
	}

	dst = append(dst, byte(len(s.Slices)))
	for i, e := range s.Slices {
		if e.Length < SliceLengthBias || int(e.Length)-SliceLengthBias > MaxTableCount {
			return dst[:start], fmt.Errorf("slice %d: %w: %d", i, errs.ErrSliceLengthOutOfRange, e.Length)
		}
		dst = binary.LittleEndian.AppendUint16(dst, e.Offset)
		dst = append(dst, byte(e.Length-SliceLengthBias))
	}

	if dst, err = symbol.AppendAll(dst, s.Symbols); err != nil {
		return dst[:start], fmt.Errorf("main sequence: %w", err)
	}

	return dst, nil
}

func checkRLEAdjacency(symbols []symbol.Symbol) error {
	for i := 1; i < len(symbols); i++ {
		if symbols[i].IsRLE() && symbols[i-1].IsRLE() {
			return fmt.Errorf("%w at %d", errs.ErrAdjacentRLE, i)
		}
	}

	return nil
}

// ParseBlock reads a block written by AppendBlock. It reads main sequence
// symbols until they expand to exactly eventCount rows, and returns the stream
// with the number of bytes consumed.
//
// Only cfg.ShortGaps affects parsing; the rest of cfg is carried into the
// returned stream.
func ParseBlock(data []byte, eventCount int, cfg Config) (*Stream, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	if eventCount < 0 {
		return nil, 0, fmt.Errorf("%w: negative event count %d", errs.ErrInvalidBlock, eventCount)
	}

	s := &Stream{cfg: cfg, logger: discardLogger}
	r := symbol.NewReader(data)

	n, err := r.ReadByte()
	if err != nil {
		return nil, 0, fmt.Errorf("row dictionary count: %w", err)
	}
	s.RowDict = make([]DictEntry, 0, n)
	for i := range int(n) {
		sym, err := r.Next()
		if err != nil {
			return nil, 0, fmt.Errorf("row dictionary entry %d: %w", i, err)
		}
		if sym.Kind != symbol.KindRowEvent {
			return nil, 0, fmt.Errorf("%w: row dictionary entry %d is %s", errs.ErrInvalidBlock, i, sym.Kind)
		}
		s.RowDict = append(s.RowDict, DictEntry{Row: sym.Row})
	}
	if cfg.DictionaryBias()+len(s.RowDict) > symbol.MaxDictionaryIndex+1 {
		return nil, 0, fmt.Errorf("%w: %d row dictionary entries", errs.ErrTableTooLarge, len(s.RowDict))
	}

	if n, err = r.ReadByte(); err != nil {
		return nil, 0, fmt.Errorf("slice dictionary count: %w", err)
	}
	s.SlicePool = make([]symbol.Symbol, 0, n)
	for i := range int(n) {
		sym, err := r.Next()
		if err != nil {
			return nil, 0, fmt.Errorf("slice dictionary symbol %d: %w", i, err)
		}
		s.SlicePool = append(s.SlicePool, sym)
	}

	if n, err = r.ReadByte(); err != nil {
		return nil, 0, fmt.Errorf("slice table count: %w", err)
	}
	if int(n) > symbol.MaxReferenceIndex+1 {
		return nil, 0, fmt.Errorf("%w: %d slices", errs.ErrTableTooLarge, n)
	}
	s.Slices = make([]SliceEntry, 0, n)
	sliceRows := make([]int, 0, n)
	for i := range int(n) {
		var raw [sliceEntrySize]byte
		for j := range raw {
			if raw[j], err = r.ReadByte(); err != nil {
				return nil, 0, fmt.Errorf("slice table entry %d: %w", i, err)
			}
		}
		e := SliceEntry{
			Offset: binary.LittleEndian.Uint16(raw[:2]),
			Length: uint16(raw[2]) + SliceLengthBias,
		}
		if int(e.Offset)+int(e.Length) > len(s.SlicePool) {
			return nil, 0, fmt.Errorf("slice table entry %d: %w: %d+%d > %d",
				i, errs.ErrSliceOutOfRange, e.Offset, e.Length, len(s.SlicePool))
		}
		rowsIn, err := s.sliceRows(e)
		if err != nil {
			return nil, 0, fmt.Errorf("slice table entry %d: %w", i, err)
		}
		s.Slices = append(s.Slices, e)
		sliceRows = append(sliceRows, rowsIn)
	}

	expanded := 0
	for expanded < eventCount {
		sym, err := r.Next()
		if err != nil {
			return nil, 0, fmt.Errorf("main sequence after %d of %d rows: %w", expanded, eventCount, err)
		}

		switch sym.Kind {
		case symbol.KindRowEvent:
			expanded++
		case symbol.KindDictionary:
			rows, err := s.dictionaryRows(sym)
			if err != nil {
				return nil, 0, err
			}
			expanded += rows
		case symbol.KindRLE:
			if expanded == 0 {
				return nil, 0, errs.ErrDanglingRLE
			}
			expanded += int(sym.Value)
		case symbol.KindReference:
			if int(sym.Value) >= len(s.Slices) {
				return nil, 0, fmt.Errorf("%w: %d of %d slices", errs.ErrReferenceIndexOutOfRange, sym.Value, len(s.Slices))
			}
			expanded += sliceRows[sym.Value]
		default:
			return nil, 0, errs.ErrUnknownSymbol
		}
		s.Symbols = append(s.Symbols, sym)
	}

	if expanded != eventCount {
		return nil, 0, fmt.Errorf("%w: %d rows, want %d", errs.ErrEventCountMismatch, expanded, eventCount)
	}

	return s, r.Offset(), nil
}

// dictionaryRows returns the number of rows a Dictionary symbol expands to.
func (s *Stream) dictionaryRows(sym symbol.Symbol) (int, error) {
	bias := s.cfg.DictionaryBias()
	if int(sym.Value) < bias {
		return int(sym.Value) + 2, nil
	}
	if int(sym.Value)-bias >= len(s.RowDict) {
		return 0, fmt.Errorf("%w: %d of %d entries", errs.ErrDictionaryIndexOutOfRange, sym.Value, len(s.RowDict))
	}

	return 1, nil
}

// sliceRows returns the number of rows a slice expands to.
func (s *Stream) sliceRows(e SliceEntry) (int, error) {
	rows := 0
	for i, sym := range s.SlicePool[e.Offset : e.Offset+e.Length] {
		switch sym.Kind {
		case symbol.KindRowEvent:
			rows++
		case symbol.KindDictionary:
			n, err := s.dictionaryRows(sym)
			if err != nil {
				return 0, err
			}
			rows += n
		case symbol.KindRLE:
			if i == 0 {
				return 0, fmt.Errorf("%w: slice starts with RLE", errs.ErrInvalidBlock)
			}
			rows += int(sym.Value)
		case symbol.KindReference:
			return 0, errs.ErrNestedReference
		default:
			return 0, errs.ErrUnknownSymbol
		}
	}

	return rows, nil
}
