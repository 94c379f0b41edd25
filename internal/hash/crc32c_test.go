package hash

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32C(t *testing.T) {
	// Known-answer value for the CRC32C check string.
	assert.Equal(t, uint32(0xE3069283), CRC32C([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32C(nil))
}

func TestNewCRC32C_Streaming(t *testing.T) {
	data := []byte("axis library key library data file")
	h := NewCRC32C()
	_, _ = h.Write(data[:10])
	_, _ = h.Write(data[10:])
	assert.Equal(t, CRC32C(data), h.Sum32())
}

func TestReader(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB, 0x01}, 4096)
	r := NewReader(bytes.NewReader(data))

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, out)
	assert.Equal(t, int64(len(data)), r.Size())
	assert.Equal(t, CRC32C(data), r.Sum32())
}
