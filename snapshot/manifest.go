package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/arraydb/blobstore"
)

const (
	// Prefix is the blob name prefix shared by all snapshots.
	Prefix = "snapshots/"

	// ManifestName is the name of the manifest blob within a snapshot.
	ManifestName = "manifest.json"

	// FormatVersion is the manifest format written by Export.
	FormatVersion = 1
)

// File describes one database file inside a snapshot.
type File struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	CRC32C uint32 `json:"crc32c"`
}

// Manifest describes a snapshot.
type Manifest struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Axes      []uint64  `json:"axes"`
	Files     []File    `json:"files"`
}

// TotalSize returns the sum of all file sizes.
func (m *Manifest) TotalSize() int64 {
	var n int64
	for _, f := range m.Files {
		n += f.Size
	}
	return n
}

func (m *Manifest) validate() error {
	if m.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidManifest, m.Version)
	}
	if len(m.Axes) == 0 {
		return fmt.Errorf("%w: no axes", ErrInvalidManifest)
	}
	want := fileNames(len(m.Axes))
	if len(m.Files) != len(want) {
		return fmt.Errorf("%w: %d files, want %d", ErrInvalidManifest, len(m.Files), len(want))
	}
	for i, f := range m.Files {
		if f.Name != want[i] {
			return fmt.Errorf("%w: file %d is %q, want %q", ErrInvalidManifest, i, f.Name, want[i])
		}
		if f.Size < 0 {
			return fmt.Errorf("%w: negative size for %q", ErrInvalidManifest, f.Name)
		}
	}
	return nil
}

func blobName(id, name string) string {
	return path.Join(Prefix, id, name)
}

// Load reads and validates the manifest of snapshot id.
func Load(ctx context.Context, store blobstore.BlobStore, id string) (*Manifest, error) {
	if id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, id)
	}
	data, err := blobstore.Get(ctx, store, blobName(id, ManifestName))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return nil, fmt.Errorf("snapshot: read manifest %s: %w", id, err)
	}

	var m Manifest
	if err := gojson.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if m.ID != id {
		return nil, fmt.Errorf("%w: id %q does not match %q", ErrInvalidManifest, m.ID, id)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns the manifests of all complete snapshots, oldest first.
func List(ctx context.Context, store blobstore.BlobStore) ([]*Manifest, error) {
	names, err := store.List(ctx, Prefix)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}

	var out []*Manifest
	for _, name := range names {
		rest := strings.TrimPrefix(name, Prefix)
		id, file, ok := strings.Cut(rest, "/")
		if !ok || file != ManifestName {
			continue
		}
		m, err := Load(ctx, store, id)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes snapshot id. The manifest goes first so that a partially
// deleted snapshot is no longer listed.
func Delete(ctx context.Context, store blobstore.BlobStore, id string) error {
	m, err := Load(ctx, store, id)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, blobName(id, ManifestName)); err != nil {
		return fmt.Errorf("snapshot: delete %s: %w", id, err)
	}
	for _, f := range m.Files {
		if err := store.Delete(ctx, blobName(id, f.Name)); err != nil {
			return fmt.Errorf("snapshot: delete %s/%s: %w", id, f.Name, err)
		}
	}
	return nil
}
