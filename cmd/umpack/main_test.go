package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/umpack/stream"
)

func TestParsePasses(t *testing.T) {
	tests := []struct {
		in   string
		want stream.Pass
	}{
		{"rle,dictionary,slices", stream.PassAll},
		{"all", stream.PassAll},
		{"RLE, slices", stream.PassRLE | stream.PassSlices},
		{"dict", stream.PassDictionary},
		{"", 0},
	}

	for _, tt := range tests {
		got, err := parsePasses(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := parsePasses("rle,huffman")
	require.Error(t, err)
}

func TestEncoderOptions(t *testing.T) {
	opts, err := encoderOptions(options{compression: "zstd", passes: "all", bigEndian: true, verbose: true})
	require.NoError(t, err)
	require.Len(t, opts, 6)

	_, err = encoderOptions(options{compression: "brotli", passes: "all"})
	require.Error(t, err)

	_, err = encoderOptions(options{compression: "none", passes: "bogus"})
	require.Error(t, err)
}
