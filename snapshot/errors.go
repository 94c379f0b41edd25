package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrSnapshotNotFound is returned when no manifest exists for an ID.
	ErrSnapshotNotFound = errors.New("snapshot: not found")

	// ErrInvalidManifest is returned when a manifest cannot be decoded or
	// does not describe a well-formed database.
	ErrInvalidManifest = errors.New("snapshot: invalid manifest")

	// ErrTargetNotEmpty is returned by Import when the target directory
	// already contains entries.
	ErrTargetNotEmpty = errors.New("snapshot: target directory not empty")
)

// ErrChecksumMismatch is returned when a downloaded file does not match the
// size or checksum recorded in the manifest.
type ErrChecksumMismatch struct {
	File         string
	ExpectedSize int64
	ActualSize   int64
	Expected     uint32
	Actual       uint32
}

func (e *ErrChecksumMismatch) Error() string {
	if e.ExpectedSize != e.ActualSize {
		return fmt.Sprintf("snapshot: %s: size %d, want %d", e.File, e.ActualSize, e.ExpectedSize)
	}
	return fmt.Sprintf("snapshot: %s: crc32c %08x, want %08x", e.File, e.Actual, e.Expected)
}
