// Package hash provides the CRC32-Castagnoli checksums used by arraydb
// snapshots.
//
// Every file captured in a snapshot manifest carries the CRC32C of its
// contents. Import recomputes the checksum while streaming the blob back to
// disk and rejects the file on mismatch.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	_, _ = io.Copy(h, r)
//	checksum := h.Sum32()
package hash
