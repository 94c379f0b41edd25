package hash

import (
	"hash"
	"hash/crc32"
	"io"
)

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// Reader computes a running CRC32C over everything read through it.
type Reader struct {
	r io.Reader
	h hash.Hash32
	n int64
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, h: NewCRC32C()}
}

func (cr *Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		_, _ = cr.h.Write(p[:n])
		cr.n += int64(n)
	}
	return n, err
}

// Sum32 returns the checksum of the bytes read so far.
func (cr *Reader) Sum32() uint32 { return cr.h.Sum32() }

// Size returns the number of bytes read so far.
func (cr *Reader) Size() int64 { return cr.n }
