package symbol

import "fmt"

// Row is one channel's event on one pattern row. Zero fields mean "nothing
// set", and a Row with all fields zero is an empty row.
type Row struct {
	Note        uint8
	Instrument  uint8
	Volume      uint8
	EffectType  uint8
	EffectParam uint8
}

// Field presence bits of a RowEvent prefix byte.
const (
	fieldNote        = 0b0000_0001
	fieldInstrument  = 0b0000_0010
	fieldVolume      = 0b0000_0100
	fieldEffectType  = 0b0000_1000
	fieldEffectParam = 0b0001_0000
)

// IsEmpty reports whether all fields are zero.
func (r Row) IsEmpty() bool {
	return r == Row{}
}

// FieldCount returns the number of non-zero fields.
func (r Row) FieldCount() int {
	n := 0
	for _, v := range r.fields() {
		if v != 0 {
			n++
		}
	}

	return n
}

// EncodedSize returns the size of r encoded as a RowEvent symbol.
func (r Row) EncodedSize() int {
	return 1 + r.FieldCount()
}

// mask returns the field presence mask of r.
func (r Row) mask() uint8 {
	var m uint8
	for i, v := range r.fields() {
		if v != 0 {
			m |= 1 << i
		}
	}

	return m
}

func (r Row) fields() [5]uint8 {
	return [5]uint8{r.Note, r.Instrument, r.Volume, r.EffectType, r.EffectParam}
}

func (r Row) String() string {
	if r.IsEmpty() {
		return "---"
	}

	return fmt.Sprintf("%02X %02X %02X %02X%02X", r.Note, r.Instrument, r.Volume, r.EffectType, r.EffectParam)
}
