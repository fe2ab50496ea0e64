//go:build bench
// +build bench

package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/ssargent/embla/pkg/strand"
)

func BenchmarkWriteEntry(b *testing.B) {
	benchmarks := []struct {
		name string
		size int
	}{
		{name: "small", size: 16},
		{name: "medium", size: 1024},
		{name: "large", size: 64 * 1024},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			s := strand.FromBytes(42, bytes.Repeat([]byte{0xA5}, bm.size))
			b.SetBytes(int64(bm.size))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := WriteEntry(io.Discard, s); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkReadEntry(b *testing.B) {
	benchmarks := []struct {
		name string
		size int
	}{
		{name: "small", size: 16},
		{name: "medium", size: 1024},
		{name: "large", size: 64 * 1024},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			var buf bytes.Buffer
			if err := WriteEntry(&buf, strand.FromBytes(42, bytes.Repeat([]byte{0xA5}, bm.size))); err != nil {
				b.Fatal(err)
			}
			encoded := buf.Bytes()
			b.SetBytes(int64(bm.size))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := ReadEntry(bytes.NewReader(encoded)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
