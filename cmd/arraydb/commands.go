package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/arraydb"
	"github.com/hupe1980/arraydb/codec"
)

var errCheckFailed = errors.New("check found problems")

func usageErr(format string) error {
	return fmt.Errorf("%w: arraydb %s", errUsage, format)
}

func runData[T any](ctx context.Context, e *env, vt valueType[T], cmd string, args []string) error {
	if len(args) == 0 {
		return usageErr(cmd + " <dir> ...")
	}
	dir, args := args[0], args[1:]
	opts := []arraydb.Option{arraydb.WithLogger(e.logger)}

	if cmd == "create" {
		axes, err := parseCoords(args)
		if err != nil {
			return err
		}
		create := arraydb.Create[T]
		if e.unchecked {
			create = arraydb.CreateUnchecked[T]
		}
		_, err = create(ctx, dir, vt.codec, axes, opts...)
		return err
	}

	db, err := arraydb.Open(ctx, dir, vt.codec, opts...)
	if err != nil {
		return err
	}

	switch cmd {
	case "link":
		prefix, err := parseCoords(args)
		if err != nil {
			return err
		}
		if e.unchecked {
			return db.LinkUnchecked(ctx, prefix)
		}
		return db.Link(ctx, prefix)

	case "islinked":
		prefix, err := parseCoords(args)
		if err != nil {
			return err
		}
		ok, err := db.IsLinked(ctx, prefix)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, ok)
		return err

	case "write":
		if len(args) == 0 {
			return usageErr("write <dir> <value> <x1> ... <xN>")
		}
		v, err := vt.parse(args[0])
		if err != nil {
			return fmt.Errorf("value %q: %w", args[0], err)
		}
		addr, err := parseCoords(args[1:])
		if err != nil {
			return err
		}
		if e.unchecked {
			return db.WriteUnchecked(ctx, addr, v)
		}
		return db.Write(ctx, addr, v)

	case "read":
		addr, err := parseCoords(args)
		if err != nil {
			return err
		}
		read := db.Read
		if e.unchecked {
			read = db.ReadUnchecked
		}
		v, err := read(ctx, addr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, vt.format(v))
		return err

	case "stream":
		if len(args) == 0 {
			return usageErr("stream <dir> <n> <x1> ... <xN>")
		}
		n, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("count %q: %w", args[0], err)
		}
		addr, err := parseCoords(args[1:])
		if err != nil {
			return err
		}
		return stream(ctx, e, db, vt, addr, n)

	case "check":
		report, err := db.Check(ctx)
		if err != nil {
			return err
		}
		for _, p := range report.Problems() {
			if _, err := fmt.Fprintln(e.stdout, p); err != nil {
				return err
			}
		}
		if !report.OK() {
			return errCheckFailed
		}
		_, err = fmt.Fprintln(e.stdout, "ok")
		return err

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// stream prints one "index<TAB>value" line per cell, decoding the raw
// stream as it is produced.
func stream[T any](ctx context.Context, e *env, db *arraydb.DB[T], vt valueType[T], addr []uint64, n uint64) error {
	readStream := db.ReadStream
	if e.unchecked {
		readStream = db.ReadStreamUnchecked
	}
	var first uint64
	if len(addr) > 0 {
		first = addr[len(addr)-1]
	}

	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := readStream(gctx, pw, addr, n)
		_ = pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		err := codec.Unpack(pr, vt.codec, n, func(i uint64, v T) error {
			_, err := fmt.Fprintf(e.stdout, "%d\t%s\n", first+i, vt.format(v))
			return err
		})
		_ = pr.CloseWithError(err)
		return err
	})
	return g.Wait()
}
