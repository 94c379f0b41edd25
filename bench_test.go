package arraydb

import (
	"io"
	"testing"

	"github.com/hupe1980/arraydb/codec"
)

func BenchmarkWrite(b *testing.B) {
	ctx := b.Context()
	db, err := Create(ctx, b.TempDir()+"/array", codec.F64{}, []uint64{16, 16, 256})
	if err != nil {
		b.Fatal(err)
	}
	if err := db.Link(ctx, []uint64{8, 8}); err != nil {
		b.Fatal(err)
	}
	addr := []uint64{8, 8, 1}

	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		addr[2] = uint64(i%256) + 1
		if err := db.Write(ctx, addr, float64(i)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRead(b *testing.B) {
	ctx := b.Context()
	db, err := Create(ctx, b.TempDir()+"/array", codec.U64{}, []uint64{16, 16, 256})
	if err != nil {
		b.Fatal(err)
	}
	if err := db.Link(ctx, []uint64{3, 4}); err != nil {
		b.Fatal(err)
	}
	addr := []uint64{3, 4, 1}

	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		addr[2] = uint64(i%256) + 1
		if _, err := db.Read(ctx, addr); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReadStream(b *testing.B) {
	ctx := b.Context()
	db, err := Create(ctx, b.TempDir()+"/array", codec.F64{}, []uint64{4, 4096})
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(4096 * 8)
	b.ReportAllocs()
	for b.Loop() {
		if err := db.ReadStream(ctx, io.Discard, []uint64{2, 1}, 4096); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLink(b *testing.B) {
	ctx := b.Context()
	db, err := Create(ctx, b.TempDir()+"/array", codec.I16{}, []uint64{1 << 20, 4, 8})
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		x := uint64(i%(1<<20)) + 1
		if err := db.Link(ctx, []uint64{x, 1}); err != nil {
			b.Fatal(err)
		}
	}
}
