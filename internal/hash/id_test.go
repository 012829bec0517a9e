package hash

import (
	"math/rand"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

func TestSum64(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"single byte", []byte{0xE1}},
		{"symbol key", []byte{1, 60, 0, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, xxhash.Sum64(tt.data), Sum64(tt.data))
		})
	}

	assert.Equal(t, uint64(0xef46db3751d8e999), Sum64(nil))
}

func TestChecksum32(t *testing.T) {
	data := []byte("umpack payload")
	assert.Equal(t, uint32(xxhash.Sum64(data)), Checksum32(data))
	assert.NotEqual(t, Checksum32(data), Checksum32([]byte("umpack payloae")))
}

func BenchmarkSum64(b *testing.B) {
	data := make([]byte, 40)
	rng := rand.New(rand.NewSource(1))
	rng.Read(data)
	b.ResetTimer()
	for b.Loop() {
		Sum64(data)
	}
}
