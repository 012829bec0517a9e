// Package symbol defines the event records of a tracker channel and the
// symbols of the compressed event stream, together with their self-describing
// byte encoding.
//
// # Byte Format
//
// Every symbol starts with a prefix byte whose leading bits select its kind:
//
//	0xxxxxxx                 Dictionary   low 7 bits = index
//	10xxxxxx                 Reference    low 6 bits = slice slot
//	110xxxxx                 RLE          low 5 bits = count chunk
//	111xxxxx + field bytes   RowEvent     low 5 bits = field presence mask
//
// RLE counts wider than 5 bits are written as consecutive RLE bytes, least
// significant chunk first. A reader keeps consuming chunks while the next byte
// carries the RLE prefix, so two RLE symbols must never be adjacent in a
// serialized sequence.
//
// A RowEvent's mask bits follow the field order note (bit 0), instrument,
// volume, effect type and effect parameter (bit 4); one byte follows per set
// bit, and zero fields are omitted.
package symbol
