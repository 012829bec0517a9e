package symbol

import (
	"fmt"

	"github.com/arloliu/umpack/errs"
)

// Prefix bits of the first byte of each symbol kind.
const (
	prefixReference = 0b1000_0000
	prefixRLE       = 0b1100_0000
	prefixRowEvent  = 0b1110_0000

	maskReference = 0b1100_0000
	maskRLE       = 0b1110_0000

	payloadReference = 0b0011_1111
	payloadRLE       = 0b0001_1111
	payloadRowEvent  = 0b0001_1111
)

// KindOf returns the symbol kind selected by a prefix byte.
func KindOf(b byte) Kind {
	switch {
	case b&0x80 == 0:
		return KindDictionary
	case b&maskReference == prefixReference:
		return KindReference
	case b&maskRLE == prefixRLE:
		return KindRLE
	default:
		return KindRowEvent
	}
}

// Append appends the encoding of s to dst.
//
// Out-of-range indexes, a zero RLE count and Unknown symbols are rejected
// rather than truncated, since they mean a compression pass produced a symbol
// the format cannot hold.
func Append(dst []byte, s Symbol) ([]byte, error) {
	switch s.Kind {
	case KindDictionary:
		if s.Value > MaxDictionaryIndex {
			return dst, fmt.Errorf("%w: %d", errs.ErrDictionaryIndexOutOfRange, s.Value)
		}

		return append(dst, byte(s.Value)), nil
	case KindReference:
		if s.Value > MaxReferenceIndex {
			return dst, fmt.Errorf("%w: %d", errs.ErrReferenceIndexOutOfRange, s.Value)
		}

		return append(dst, prefixReference|byte(s.Value)), nil
	case KindRLE:
		if s.Value == 0 {
			return dst, errs.ErrInvalidRLECount
		}

		for n := s.Value; n > 0; n >>= RLEChunkBits {
			dst = append(dst, prefixRLE|byte(n&payloadRLE))
		}

		return dst, nil
	case KindRowEvent:
		r := s.Row
		dst = append(dst, prefixRowEvent|r.mask())
		for _, v := range r.fields() {
			if v != 0 {
				dst = append(dst, v)
			}
		}

		return dst, nil
	default:
		return dst, errs.ErrUnknownSymbol
	}
}

// AppendAll appends the encodings of symbols to dst.
func AppendAll(dst []byte, symbols []Symbol) ([]byte, error) {
	var err error
	for i, s := range symbols {
		dst, err = Append(dst, s)
		if err != nil {
			return dst, fmt.Errorf("symbol %d (%s): %w", i, s, err)
		}
	}

	return dst, nil
}

// Reader decodes symbols from a byte slice one at a time.
//
// Note: Reader is NOT thread-safe.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadByte reads one raw byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errs.ErrTruncatedData
	}
	b := r.data[r.pos]
	r.pos++

	return b, nil
}

// Next decodes the next symbol.
func (r *Reader) Next() (Symbol, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Symbol{}, err
	}

	switch KindOf(b) {
	case KindDictionary:
		return Dictionary(b), nil
	case KindReference:
		return Reference(b & payloadReference), nil
	case KindRLE:
		count := uint32(b & payloadRLE)
		chunks := 1
		for r.pos < len(r.data) && KindOf(r.data[r.pos]) == KindRLE {
			chunk := uint32(r.data[r.pos] & payloadRLE)
			if chunks == MaxRLEChunks || chunk > (0xFFFFFFFF>>(chunks*RLEChunkBits)) {
				return Symbol{}, errs.ErrRLEOverflow
			}
			count |= chunk << (chunks * RLEChunkBits)
			chunks++
			r.pos++
		}

		if count == 0 {
			return Symbol{}, errs.ErrInvalidRLECount
		}

		return RLE(count), nil
	default:
		var fields [5]uint8
		mask := b & payloadRowEvent
		for i := range fields {
			if mask&(1<<i) == 0 {
				continue
			}
			if fields[i], err = r.ReadByte(); err != nil {
				return Symbol{}, err
			}
		}

		return RowEvent(Row{
			Note:        fields[0],
			Instrument:  fields[1],
			Volume:      fields[2],
			EffectType:  fields[3],
			EffectParam: fields[4],
		}), nil
	}
}
