package compress

import (
	"fmt"
	"testing"
)

func BenchmarkCodecs(b *testing.B) {
	for _, size := range []int{1024, 16 * 1024, 256 * 1024} {
		data := payloadLike(size, 42)

		for _, ct := range allTypes {
			codec, err := GetCodec(ct)
			if err != nil {
				b.Fatal(err)
			}

			compressed, err := codec.Compress(data)
			if err != nil {
				b.Fatal(err)
			}

			b.Run(fmt.Sprintf("%s/Compress/%dKB", ct, size/1024), func(b *testing.B) {
				b.SetBytes(int64(size))
				b.ReportAllocs()
				for b.Loop() {
					if _, err := codec.Compress(data); err != nil {
						b.Fatal(err)
					}
				}
			})

			b.Run(fmt.Sprintf("%s/Decompress/%dKB", ct, size/1024), func(b *testing.B) {
				b.SetBytes(int64(size))
				b.ReportAllocs()
				for b.Loop() {
					if _, err := codec.Decompress(compressed, size); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
