package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionType_String(t *testing.T) {
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "Unknown", CompressionType(0x9).String())
}

func TestParseCompressionType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CompressionType
		wantErr bool
	}{
		{"empty means none", "", CompressionNone, false},
		{"none", "none", CompressionNone, false},
		{"zstd upper", "ZSTD", CompressionZstd, false},
		{"s2", "s2", CompressionS2, false},
		{"lz4 padded", " lz4 ", CompressionLZ4, false},
		{"unknown", "brotli", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompressionType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.True(t, got.IsValid())
		})
	}
}
