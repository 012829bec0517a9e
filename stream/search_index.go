package stream

import (
	"github.com/arloliu/umpack/internal/collision"
	"github.com/arloliu/umpack/internal/hash"
	"github.com/arloliu/umpack/symbol"
)

// searchIndex maps the xxHash64 of every fixed-width symbol prefix to the
// positions where it starts. Positions sharing a hash are candidates only;
// callers must compare symbols before treating them as equal.
type searchIndex struct {
	width   int
	buckets map[uint64][]int
	tracker *collision.Tracker
	key     []byte
}

func newSearchIndex(width int) *searchIndex {
	return &searchIndex{
		width:   width,
		buckets: make(map[uint64][]int),
		tracker: collision.NewTracker(),
		key:     make([]byte, 0, width*symbol.KeySize),
	}
}

// rebuild indexes every prefix of symbols. Positions in each bucket are in
// ascending order.
func (x *searchIndex) rebuild(symbols []symbol.Symbol) {
	for h, positions := range x.buckets {
		x.buckets[h] = positions[:0]
	}
	x.tracker.Reset()

	for pos := 0; pos+x.width <= len(symbols); pos++ {
		h := x.hashAt(symbols, pos)
		x.tracker.Track(h, x.key)
		x.buckets[h] = append(x.buckets[h], pos)
	}
}

// candidates returns the positions whose prefix hashes like the one at pos.
// The returned slice is owned by the index.
func (x *searchIndex) candidates(symbols []symbol.Symbol, pos int) []int {
	if pos+x.width > len(symbols) {
		return nil
	}

	return x.buckets[x.hashAt(symbols, pos)]
}

// collisions returns the number of colliding prefixes seen by the last
// rebuild.
func (x *searchIndex) collisions() int {
	return x.tracker.Collisions()
}

// prefixes returns the number of distinct prefixes seen by the last rebuild.
func (x *searchIndex) prefixes() int {
	return x.tracker.Count()
}

func (x *searchIndex) hashAt(symbols []symbol.Symbol, pos int) uint64 {
	x.key = x.key[:0]
	for _, s := range symbols[pos : pos+x.width] {
		x.key = symbol.AppendKey(x.key, s)
	}

	return hash.Sum64(x.key)
}
