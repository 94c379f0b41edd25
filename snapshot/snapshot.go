package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hupe1980/arraydb/blobstore"
	"github.com/hupe1980/arraydb/internal/axis"
	"github.com/hupe1980/arraydb/internal/datafile"
	"github.com/hupe1980/arraydb/internal/hash"
	"github.com/hupe1980/arraydb/internal/keylib"
	"github.com/hupe1980/arraydb/internal/resource"
	"golang.org/x/sync/errgroup"
)

// fileNames lists the files of an n-dimensional database in manifest order.
func fileNames(n int) []string {
	names := []string{axis.FileName}
	for i := 1; i <= n-2; i++ {
		names = append(names, keylib.FileName(i))
	}
	return append(names, datafile.FileName)
}

// Export uploads the database in dir to store as a new snapshot and returns
// its manifest.
func Export(ctx context.Context, dir string, store blobstore.BlobStore, opts ...Option) (m *Manifest, err error) {
	o := applyOptions(opts)
	id := uuid.NewString()
	logger := o.logger.WithDir(dir)

	var total int64
	var count int
	defer func() {
		logger.LogSnapshot(ctx, "export", id, count, total, err)
	}()

	axes, err := axis.Load(o.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot: export %s: %w", dir, err)
	}

	names := fileNames(len(axes))
	files := make([]File, len(names))
	rc := resource.NewController(o.resource)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, name := range names {
		g.Go(func() error {
			f, err := upload(gctx, o, rc, store, dir, id, name)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		removeBlobs(context.WithoutCancel(ctx), store, id, names)
		return nil, err
	}

	m = &Manifest{
		Version:   FormatVersion,
		ID:        id,
		CreatedAt: o.now().UTC(),
		Axes:      axes,
		Files:     files,
	}
	data, err := gojson.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode manifest: %w", err)
	}
	if err := store.Put(ctx, blobName(id, ManifestName), data); err != nil {
		removeBlobs(context.WithoutCancel(ctx), store, id, names)
		return nil, fmt.Errorf("snapshot: write manifest: %w", err)
	}

	count, total = len(files), m.TotalSize()
	return m, nil
}

func upload(ctx context.Context, o options, rc *resource.Controller, store blobstore.BlobStore, dir, id, name string) (File, error) {
	src, err := o.fs.OpenFile(dir+"/"+name, os.O_RDONLY, 0)
	if err != nil {
		return File{}, fmt.Errorf("snapshot: open %s: %w", name, err)
	}
	defer src.Close()

	w, err := store.Create(ctx, blobName(id, name))
	if err != nil {
		return File{}, fmt.Errorf("snapshot: create blob %s: %w", name, err)
	}

	hr := hash.NewReader(src)
	if _, err := io.Copy(limit(ctx, w, rc), hr); err != nil {
		_ = w.Abort()
		return File{}, fmt.Errorf("snapshot: upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return File{}, fmt.Errorf("snapshot: upload %s: %w", name, err)
	}
	return File{Name: name, Size: hr.Size(), CRC32C: hr.Sum32()}, nil
}

func limit(ctx context.Context, w io.Writer, rc *resource.Controller) io.Writer {
	if rc.Burst() > 0 {
		return resource.NewRateLimitedWriter(ctx, w, rc)
	}
	return w
}

func removeBlobs(ctx context.Context, store blobstore.BlobStore, id string, names []string) {
	for _, name := range names {
		_ = store.Delete(ctx, blobName(id, name))
	}
}

// Import restores snapshot id into dir. dir must not exist or be empty.
// Every file is verified against the manifest; on failure the files
// written so far are removed.
func Import(ctx context.Context, store blobstore.BlobStore, id, dir string, opts ...Option) (err error) {
	o := applyOptions(opts)
	logger := o.logger.WithDir(dir)

	var total int64
	var count int
	defer func() {
		logger.LogSnapshot(ctx, "import", id, count, total, err)
	}()

	m, err := Load(ctx, store, id)
	if err != nil {
		return err
	}

	entries, err := o.fs.ReadDir(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := o.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: import %s: %w", dir, err)
		}
	case err != nil:
		return fmt.Errorf("snapshot: import %s: %w", dir, err)
	case len(entries) > 0:
		return fmt.Errorf("%w: %s", ErrTargetNotEmpty, dir)
	}

	rc := resource.NewController(o.resource)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, f := range m.Files {
		g.Go(func() error {
			return download(gctx, o, rc, store, id, dir, f)
		})
	}
	if err := g.Wait(); err != nil {
		removeFiles(o, dir, m.Files)
		return err
	}

	axes, err := axis.Load(o.fs, dir)
	if err != nil {
		removeFiles(o, dir, m.Files)
		return fmt.Errorf("snapshot: import %s: %w", dir, err)
	}
	if !slices.Equal(axes, m.Axes) {
		removeFiles(o, dir, m.Files)
		return fmt.Errorf("%w: axes %v, manifest says %v", ErrInvalidManifest, axes, m.Axes)
	}

	count, total = len(m.Files), m.TotalSize()
	return nil
}

func download(ctx context.Context, o options, rc *resource.Controller, store blobstore.BlobStore, id, dir string, f File) (err error) {
	blob, err := store.Open(ctx, blobName(id, f.Name))
	if err != nil {
		return fmt.Errorf("snapshot: open blob %s: %w", f.Name, err)
	}
	defer blob.Close()

	if blob.Size() != f.Size {
		return &ErrChecksumMismatch{File: f.Name, ExpectedSize: f.Size, ActualSize: blob.Size(), Expected: f.CRC32C}
	}

	dst, err := o.fs.OpenFile(dir+"/"+f.Name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", f.Name, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("snapshot: close %s: %w", f.Name, cerr)
		}
	}()

	hr := hash.NewReader(strings.NewReader(""))
	if f.Size > 0 {
		body, err := blob.ReadRange(ctx, 0, f.Size)
		if err != nil {
			return fmt.Errorf("snapshot: read blob %s: %w", f.Name, err)
		}
		defer body.Close()
		hr = hash.NewReader(body)
	}

	if _, err := io.Copy(limit(ctx, dst, rc), hr); err != nil {
		return fmt.Errorf("snapshot: download %s: %w", f.Name, err)
	}
	if hr.Size() != f.Size || hr.Sum32() != f.CRC32C {
		return &ErrChecksumMismatch{
			File:         f.Name,
			ExpectedSize: f.Size,
			ActualSize:   hr.Size(),
			Expected:     f.CRC32C,
			Actual:       hr.Sum32(),
		}
	}
	if err := dst.Sync(); err != nil {
		return fmt.Errorf("snapshot: sync %s: %w", f.Name, err)
	}
	return nil
}

func removeFiles(o options, dir string, files []File) {
	for _, f := range files {
		_ = o.fs.Remove(dir + "/" + f.Name)
	}
}
