package stream

import (
	"fmt"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/symbol"
)

// frame is an in-progress slice expansion.
type frame struct {
	offset    int // next slice dictionary symbol
	remaining int // symbols left in the slice
}

// Expand decodes the stream back into rows.
//
// RowEvent emits its row, Dictionary emits a short gap or a dictionary row,
// RLE repeats the last emitted row and Reference expands its slice in place.
// Slices are expanded with an explicit frame stack; slice content may not
// contain references.
func (s *Stream) Expand() ([]symbol.Row, error) {
	bias := s.cfg.DictionaryBias()
	rows := make([]symbol.Row, 0, len(s.Symbols))

	var stack []frame
	for i := 0; ; {
		var sym symbol.Symbol
		inSlice := len(stack) > 0
		if inSlice {
			top := &stack[len(stack)-1]
			if top.remaining == 0 {
				stack = stack[:len(stack)-1]
				continue
			}
			sym = s.SlicePool[top.offset]
			top.offset++
			top.remaining--
		} else {
			if i >= len(s.Symbols) {
				break
			}
			sym = s.Symbols[i]
			i++
		}

		n := 1
		switch sym.Kind {
		case symbol.KindRowEvent:
		case symbol.KindDictionary:
			if int(sym.Value) < bias {
				n = int(sym.Value) + 2
			} else if int(sym.Value)-bias >= len(s.RowDict) {
				return nil, fmt.Errorf("%w: %d of %d entries", errs.ErrDictionaryIndexOutOfRange, sym.Value, len(s.RowDict))
			}
		case symbol.KindRLE:
			if len(rows) == 0 {
				return nil, errs.ErrDanglingRLE
			}
			n = int(sym.Value)
		case symbol.KindReference:
			if inSlice {
				return nil, errs.ErrNestedReference
			}
			if int(sym.Value) >= len(s.Slices) {
				return nil, fmt.Errorf("%w: %d of %d slices", errs.ErrReferenceIndexOutOfRange, sym.Value, len(s.Slices))
			}
			e := s.Slices[sym.Value]
			if int(e.Offset)+int(e.Length) > len(s.SlicePool) {
				return nil, fmt.Errorf("%w: %d+%d > %d", errs.ErrSliceOutOfRange, e.Offset, e.Length, len(s.SlicePool))
			}
			stack = append(stack, frame{offset: int(e.Offset), remaining: int(e.Length)})

			continue
		default:
			return nil, errs.ErrUnknownSymbol
		}

		switch sym.Kind {
		case symbol.KindRowEvent:
			rows = append(rows, sym.Row)
		case symbol.KindDictionary:
			if int(sym.Value) < bias {
				for range n {
					rows = append(rows, symbol.Row{})
				}
			} else {
				rows = append(rows, s.RowDict[int(sym.Value)-bias].Row)
			}
		case symbol.KindRLE:
			last := rows[len(rows)-1]
			for range n {
				rows = append(rows, last)
			}
		}
	}

	return rows, nil
}
