package collision

// Tracker records which key produced each hash and counts distinct keys that
// share a hash. The slice search index uses it to account for 4-symbol
// prefixes whose xxHash64 values collide; matching itself always compares
// symbols, so a collision only costs a wasted comparison.
type Tracker struct {
	keys       map[uint64]string // Hash → first key seen with that hash
	collisions int               // Number of distinct keys that hit a taken hash
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		keys: make(map[uint64]string),
	}
}

// Track records key under hash and reports whether a different key was
// already recorded under the same hash.
func (t *Tracker) Track(hash uint64, key []byte) bool {
	existing, exists := t.keys[hash]
	if !exists {
		t.keys[hash] = string(key)
		return false
	}

	if existing == string(key) {
		return false
	}

	t.collisions++

	return true
}

// Collisions returns the number of colliding keys seen since the last Reset.
func (t *Tracker) Collisions() int {
	return t.collisions
}

// Count returns the number of distinct hashes tracked.
func (t *Tracker) Count() int {
	return len(t.keys)
}

// Reset clears all tracked keys and the collision count.
func (t *Tracker) Reset() {
	// Clear maps but preserve capacity to avoid allocations
	for k := range t.keys {
		delete(t.keys, k)
	}
	t.collisions = 0
}
