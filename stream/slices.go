package stream

import (
	"fmt"
	"slices"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/symbol"
)

// CompressSlices replaces repeated multi-symbol slices with references.
//
// Each iteration indexes the current sequence, scores every candidate slice
// as encodedSize(slice) * (occurrences-1) over its non-overlapping
// occurrences from the candidate's start, and registers the best one. Every
// occurrence, the first included, is then replaced by Reference(slot); the
// first occurrence's bytes move into the slice dictionary.
// The pass stops at MaxSlices registered slices, when the sequence is shorter
// than MinSearchLength, or when no candidate saves anything.
//
// Candidates never contain a Reference and never start with an RLE symbol.
func (s *Stream) CompressSlices() error {
	t := s.beginPass(PassSlices)

	idx := newSearchIndex(SliceLengthBias)
	var positions, best []int
	collisions, prefixes := 0, 0
	for len(s.Slices) < s.cfg.MaxSlices && len(s.Symbols) >= s.cfg.MinSearchLength {
		idx.rebuild(s.Symbols)
		collisions += idx.collisions()
		prefixes += idx.prefixes()

		bestStart, bestLen, bestScore := 0, 0, 0
		n := len(s.Symbols)
		for start := 0; start+s.cfg.MinSliceLength <= n; start++ {
			if s.Symbols[start].IsRLE() ||
				symbol.ContainsReference(s.Symbols[start:start+s.cfg.MinSliceLength]) {
				continue
			}

			candidates := idx.candidates(s.Symbols, start)
			if len(candidates) < 2 {
				continue
			}

			for length := s.cfg.MinSliceLength; length <= s.cfg.MaxSliceLength && start+length <= n; length++ {
				if s.Symbols[start+length-1].IsReference() || len(s.SlicePool)+length > s.cfg.MaxSlicePool {
					break
				}

				slice := s.Symbols[start : start+length]
				positions = occurrences(positions[:0], s.Symbols, slice, start, candidates)
				// Occurrences of a longer slice are a subset of these.
				if len(positions) < 2 {
					break
				}

				score := symbol.EncodedSize(slice) * (len(positions) - 1)
				if score > bestScore {
					bestStart, bestLen, bestScore = start, length, score
					best = append(best[:0], positions...)
				}
			}
		}

		if bestScore <= 0 {
			break
		}

		slot, err := s.registerSlice(s.Symbols[bestStart : bestStart+bestLen])
		if err != nil {
			return err
		}

		s.Matches = append(s.Matches, SliceMatch{
			Slot:      slot,
			Length:    bestLen,
			Positions: append([]int(nil), best...),
		})
		s.Symbols = replaceOccurrences(s.Symbols, best, bestLen, symbol.Reference(uint8(slot))) //nolint:gosec
	}

	t.end("slices", len(s.Slices), "pool", len(s.SlicePool), "hash_keys", prefixes, "hash_collisions", collisions)

	return nil
}

// occurrences appends to dst the positions among candidates, at or after
// start, where slice occurs without overlapping the previous occurrence.
// candidates must be sorted.
func occurrences(dst []int, symbols, slice []symbol.Symbol, start int, candidates []int) []int {
	next := start
	for _, pos := range candidates {
		if pos < next || pos+len(slice) > len(symbols) {
			continue
		}
		if !slices.Equal(symbols[pos:pos+len(slice)], slice) {
			continue
		}
		dst = append(dst, pos)
		next = pos + len(slice)
	}

	return dst
}

// replaceOccurrences returns symbols with the length-symbol slices starting at
// each of positions replaced by ref. positions must be sorted and
// non-overlapping.
func replaceOccurrences(symbols []symbol.Symbol, positions []int, length int, ref symbol.Symbol) []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(symbols)-len(positions)*(length-1))
	prev := 0
	for _, pos := range positions {
		out = append(out, symbols[prev:pos]...)
		out = append(out, ref)
		prev = pos + length
	}

	return append(out, symbols[prev:]...)
}

// registerSlice adds content to the slice dictionary and returns its slot.
// Content already present in the dictionary is shared rather than copied,
// and an identical registered slice returns its existing slot.
func (s *Stream) registerSlice(content []symbol.Symbol) (int, error) {
	if symbol.ContainsReference(content) {
		return 0, errs.ErrNestedReference
	}
	if len(content) < s.cfg.MinSliceLength || len(content) > s.cfg.MaxSliceLength {
		return 0, fmt.Errorf("%w: %d", errs.ErrSliceLengthOutOfRange, len(content))
	}

	offset := findWindow(s.SlicePool, content)
	if offset >= 0 {
		for slot, e := range s.Slices {
			if int(e.Offset) == offset && int(e.Length) == len(content) {
				return slot, nil
			}
		}
	}

	if len(s.Slices) >= s.cfg.MaxSlices {
		return 0, fmt.Errorf("%w: %d slices", errs.ErrTableTooLarge, len(s.Slices))
	}

	if offset < 0 {
		if len(s.SlicePool)+len(content) > s.cfg.MaxSlicePool {
			return 0, fmt.Errorf("%w: slice dictionary of %d symbols", errs.ErrTableTooLarge, len(s.SlicePool)+len(content))
		}
		offset = len(s.SlicePool)
		s.SlicePool = append(s.SlicePool, content...)
	}

	s.Slices = append(s.Slices, SliceEntry{
		Offset: uint16(offset),       //nolint:gosec
		Length: uint16(len(content)), //nolint:gosec
	})

	return len(s.Slices) - 1, nil
}

// findWindow returns the first offset of needle in haystack, or -1.
func findWindow(haystack, needle []symbol.Symbol) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if slices.Equal(haystack[i:i+len(needle)], needle) {
			return i
		}
	}

	return -1
}
