package symbol

import (
	"fmt"
	"math/bits"
)

// Kind identifies the variant held by a Symbol.
type Kind uint8

const (
	KindUnknown    Kind = iota // KindUnknown is the zero value; never valid in serialized output.
	KindRowEvent               // KindRowEvent is a literal event record.
	KindDictionary             // KindDictionary references the row dictionary or a short gap.
	KindRLE                    // KindRLE repeats the previously decoded row.
	KindReference              // KindReference splices in a registered slice.
)

func (k Kind) String() string {
	switch k {
	case KindRowEvent:
		return "RowEvent"
	case KindDictionary:
		return "Dictionary"
	case KindRLE:
		return "RLE"
	case KindReference:
		return "Reference"
	default:
		return "Unknown"
	}
}

// Limits of the byte format.
const (
	MaxDictionaryIndex = 0x7F // MaxDictionaryIndex is the largest index a Dictionary byte holds.
	MaxReferenceIndex  = 0x3F // MaxReferenceIndex is the largest slot a Reference byte holds.
	MaxRLEChunks       = 7    // MaxRLEChunks bounds an RLE chain; 7 chunks cover 32 bits.
	RLEChunkBits       = 5    // RLEChunkBits is the payload width of one RLE byte.
)

// Symbol is one element of a compressed event stream. It is comparable, so
// symbols can be used as map keys and compared with ==.
//
// Row is meaningful for KindRowEvent only. Value holds the index of a
// Dictionary or Reference symbol and the repeat count of an RLE symbol.
type Symbol struct {
	Kind  Kind
	Row   Row
	Value uint32
}

// RowEvent returns a literal event symbol.
func RowEvent(r Row) Symbol {
	return Symbol{Kind: KindRowEvent, Row: r}
}

// Dictionary returns a dictionary index symbol.
func Dictionary(index uint8) Symbol {
	return Symbol{Kind: KindDictionary, Value: uint32(index)}
}

// RLE returns a symbol repeating the previously decoded row count more times.
func RLE(count uint32) Symbol {
	return Symbol{Kind: KindRLE, Value: count}
}

// Reference returns a back-reference to slice slot index.
func Reference(index uint8) Symbol {
	return Symbol{Kind: KindReference, Value: uint32(index)}
}

// IsRowEventOrDictionary reports whether s may take part in an RLE run.
func (s Symbol) IsRowEventOrDictionary() bool {
	return s.Kind == KindRowEvent || s.Kind == KindDictionary
}

// IsRLE reports whether s is an RLE symbol.
func (s Symbol) IsRLE() bool {
	return s.Kind == KindRLE
}

// IsReference reports whether s is a Reference symbol.
func (s Symbol) IsReference() bool {
	return s.Kind == KindReference
}

// IsEmptyRow reports whether s is a literal empty row.
func (s Symbol) IsEmptyRow() bool {
	return s.Kind == KindRowEvent && s.Row.IsEmpty()
}

// EncodedSize returns the number of bytes Append writes for s. It returns 0
// for symbols that cannot be encoded.
func (s Symbol) EncodedSize() int {
	switch s.Kind {
	case KindDictionary, KindReference:
		return 1
	case KindRLE:
		return rleChunks(s.Value)
	case KindRowEvent:
		return s.Row.EncodedSize()
	default:
		return 0
	}
}

func (s Symbol) String() string {
	switch s.Kind {
	case KindRowEvent:
		return "Row(" + s.Row.String() + ")"
	case KindDictionary:
		return fmt.Sprintf("Dict(%d)", s.Value)
	case KindRLE:
		return fmt.Sprintf("RLE(%d)", s.Value)
	case KindReference:
		return fmt.Sprintf("Ref(%d)", s.Value)
	default:
		return "Unknown"
	}
}

// EncodedSize returns the total encoded size of symbols.
func EncodedSize(symbols []Symbol) int {
	size := 0
	for _, s := range symbols {
		size += s.EncodedSize()
	}

	return size
}

// ContainsReference reports whether any symbol in symbols is a Reference.
func ContainsReference(symbols []Symbol) bool {
	for _, s := range symbols {
		if s.IsReference() {
			return true
		}
	}

	return false
}

func rleChunks(count uint32) int {
	if count == 0 {
		return 0
	}

	return (bits.Len32(count) + RLEChunkBits - 1) / RLEChunkBits
}
