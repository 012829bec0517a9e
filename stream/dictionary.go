package stream

import (
	"cmp"
	"slices"

	"github.com/arloliu/umpack/symbol"
)

// CompressDictionary moves frequent rows into the row dictionary.
//
// Rows occurring more than once with at least MinDictionaryFields non-zero
// fields are ranked by descending frequency, ties keeping first-occurrence
// order, and the top DictionaryCap become dictionary entries. Every RowEvent
// matching an entry is replaced by Dictionary(bias+position).
//
// Entries already present from an earlier run keep their indexes; new entries
// are appended while the cap allows.
func (s *Stream) CompressDictionary() {
	t := s.beginPass(PassDictionary)

	counts := make(map[symbol.Row]int)
	var order []symbol.Row
	for _, sym := range s.Symbols {
		if sym.Kind != symbol.KindRowEvent {
			continue
		}
		if counts[sym.Row] == 0 {
			order = append(order, sym.Row)
		}
		counts[sym.Row]++
	}

	candidates := order[:0]
	for _, r := range order {
		if counts[r] > 1 && r.FieldCount() >= s.cfg.MinDictionaryFields {
			candidates = append(candidates, r)
		}
	}
	slices.SortStableFunc(candidates, func(a, b symbol.Row) int {
		return cmp.Compare(counts[b], counts[a])
	})

	room := s.cfg.DictionaryCap - len(s.RowDict)
	if room < 0 {
		room = 0
	}
	if len(candidates) > room {
		candidates = candidates[:room]
	}

	bias := s.cfg.DictionaryBias()
	index := make(map[symbol.Row]uint8, len(candidates))
	for _, r := range candidates {
		index[r] = uint8(bias + len(s.RowDict)) //nolint:gosec
		s.RowDict = append(s.RowDict, DictEntry{Row: r, Count: counts[r]})
	}

	replaced := 0
	for i, sym := range s.Symbols {
		if sym.Kind != symbol.KindRowEvent {
			continue
		}
		if idx, ok := index[sym.Row]; ok {
			s.Symbols[i] = symbol.Dictionary(idx)
			replaced++
		}
	}

	t.end("entries", len(candidates), "replaced", replaced)
}
