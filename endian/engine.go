// Package endian selects the byte order of the multi-byte fields in a packed
// module container.
//
// The per-channel event blocks are byte-oriented and always little-endian;
// only the container header and channel index follow the engine chosen at
// encode time, which the header records in its options bits.
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, eventCount)
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the default.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsLittleEndian reports whether engine is the little-endian engine.
func IsLittleEndian(engine EndianEngine) bool {
	return engine == binary.LittleEndian
}
