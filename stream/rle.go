package stream

import "github.com/arloliu/umpack/symbol"

// CompressRLE collapses every maximal run of N >= MinRunLength identical
// RowEvent or Dictionary symbols into the symbol followed by RLE(N-1).
//
// Short-gap Dictionary symbols and References never take part in a run, since
// RLE repeats one decoded row and those symbols decode to several.
//
// With ShortGaps enabled, a run of 2 to ShortGapSlots+1 empty rows, now
// written as RowEvent(empty) RLE(k), is then replaced by Dictionary(k-1).
func (s *Stream) CompressRLE() {
	t := s.beginPass(PassRLE)

	in := s.Symbols
	out := make([]symbol.Symbol, 0, len(in))
	runs := 0
	for i := 0; i < len(in); {
		sym := in[i]
		j := i + 1
		if s.rleEligible(sym) {
			for j < len(in) && in[j] == sym {
				j++
			}
		}

		n := j - i
		if n >= s.cfg.MinRunLength {
			out = append(out, sym, symbol.RLE(uint32(n-1))) //nolint:gosec
			runs++
		} else {
			out = append(out, in[i:j]...)
		}
		i = j
	}

	gaps := 0
	if s.cfg.ShortGaps {
		out, gaps = absorbShortGaps(out)
	}
	s.Symbols = out

	t.end("runs", runs, "gaps", gaps)
}

func (s *Stream) rleEligible(sym symbol.Symbol) bool {
	switch sym.Kind {
	case symbol.KindRowEvent:
		return true
	case symbol.KindDictionary:
		return int(sym.Value) >= s.cfg.DictionaryBias()
	default:
		return false
	}
}

// absorbShortGaps rewrites RowEvent(empty) RLE(k) with k <= ShortGapSlots as
// Dictionary(k-1), in place.
func absorbShortGaps(symbols []symbol.Symbol) ([]symbol.Symbol, int) {
	out := symbols[:0]
	gaps := 0
	for i := 0; i < len(symbols); i++ {
		sym := symbols[i]
		if sym.IsEmptyRow() && i+1 < len(symbols) {
			next := symbols[i+1]
			if next.IsRLE() && next.Value <= ShortGapSlots {
				out = append(out, symbol.Dictionary(uint8(next.Value-1))) //nolint:gosec
				gaps++
				i++

				continue
			}
		}
		out = append(out, sym)
	}

	return out, gaps
}
