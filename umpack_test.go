package umpack

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/format"
	"github.com/arloliu/umpack/pack"
	"github.com/arloliu/umpack/song"
	"github.com/arloliu/umpack/symbol"
	"github.com/arloliu/umpack/xm"
)

// buildXM assembles a two-channel extended module with one 16-row pattern
// played twice: a four-row bass figure on channel 0 and a single effect on
// channel 1.
func buildXM() []byte {
	const headerSize = 276
	data := make([]byte, 60+headerSize)
	copy(data, xm.IDText)
	copy(data[17:], "facade")
	data[37] = 0x1A
	binary.LittleEndian.PutUint16(data[58:], 0x0104)
	binary.LittleEndian.PutUint32(data[60:], headerSize)
	binary.LittleEndian.PutUint16(data[64:], 2) // song length
	binary.LittleEndian.PutUint16(data[68:], 2) // channels
	binary.LittleEndian.PutUint16(data[70:], 1) // patterns
	binary.LittleEndian.PutUint16(data[76:], 6)
	binary.LittleEndian.PutUint16(data[78:], 125)

	var packed []byte
	for row := range 16 {
		if row%4 == 0 {
			packed = append(packed, 0x83, 36+byte(row/4%2), 1) // note + instrument
		} else {
			packed = append(packed, 0x80)
		}
		if row == 8 {
			packed = append(packed, 0x98, 0x0F, 0x03) // effect type + param
		} else {
			packed = append(packed, 0x80)
		}
	}

	header := make([]byte, 9)
	binary.LittleEndian.PutUint32(header[0:], 9)
	binary.LittleEndian.PutUint16(header[5:], 16)
	binary.LittleEndian.PutUint16(header[7:], uint16(len(packed))) //nolint:gosec
	data = append(data, header...)

	return append(data, packed...)
}

func TestPackXM_RoundTrip(t *testing.T) {
	src := buildXM()

	s, err := xm.Parse(src)
	require.NoError(t, err)
	require.Equal(t, 32, s.NumEvents())

	for _, comp := range []format.CompressionType{format.CompressionNone, format.CompressionZstd} {
		t.Run(comp.String(), func(t *testing.T) {
			packed, err := PackXM(src, pack.WithCompression(comp))
			require.NoError(t, err)

			m, err := Unpack(packed)
			require.NoError(t, err)
			require.Len(t, m.Channels, 2)
			require.Equal(t, 6, m.Tempo)
			require.Equal(t, 125, m.BPM)

			for ch, rows := range m.Channels {
				require.Len(t, rows, 32)
				for i, r := range rows {
					require.Equal(t, s.Patterns[0].Row(ch, i%16), r, "channel %d event %d", ch, i)
				}
			}
		})
	}
}

func TestPack(t *testing.T) {
	row := symbol.Row{Note: 48, Instrument: 2}
	s := &song.Song{
		NumChannels:  1,
		PatternOrder: []int{0, 0, 0},
		Patterns: []song.Pattern{{
			NumRows:  4,
			Channels: [][]symbol.Row{{row, {}, row, {}}},
		}},
	}

	packed, err := Pack(s)
	require.NoError(t, err)

	dec, err := NewDecoder(packed)
	require.NoError(t, err)
	require.Equal(t, 1, dec.NumChannels())
	require.Equal(t, format.CompressionNone, dec.Compression())

	rows, err := dec.Channel(0)
	require.NoError(t, err)
	require.Equal(t, []symbol.Row{row, {}, row, {}, row, {}, row, {}, row, {}, row, {}}, rows)
}

func TestNewEncoder_OverridesDefaults(t *testing.T) {
	enc, err := NewEncoder(pack.WithShortGaps(false), pack.WithCompression(format.CompressionLZ4))
	require.NoError(t, err)
	require.False(t, enc.StreamConfig().ShortGaps)
	require.Equal(t, format.CompressionLZ4, enc.Compression())
	require.True(t, enc.Verify())

	_, err = NewEncoder(pack.WithCompression(format.CompressionType(0)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestErrors(t *testing.T) {
	_, err := PackXM([]byte("not a module"))
	require.ErrorIs(t, err, errs.ErrTruncatedData)

	_, err = Unpack([]byte{0x00})
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}
