package symbol

// KeySize is the fixed size of a symbol key produced by AppendKey.
const KeySize = 10

// AppendKey appends a fixed-width, collision-free byte key for s to dst.
// Keys of consecutive symbols can be concatenated and hashed to index
// multi-symbol prefixes.
func AppendKey(dst []byte, s Symbol) []byte {
	return append(dst,
		byte(s.Kind),
		s.Row.Note, s.Row.Instrument, s.Row.Volume, s.Row.EffectType, s.Row.EffectParam,
		byte(s.Value), byte(s.Value>>8), byte(s.Value>>16), byte(s.Value>>24),
	)
}
