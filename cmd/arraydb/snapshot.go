package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/hupe1980/arraydb/blobstore"
	"github.com/hupe1980/arraydb/snapshot"
)

func (e *env) store(ctx context.Context) (blobstore.BlobStore, error) {
	if e.storePath != "" {
		return blobstore.NewLocalStore(e.storePath), nil
	}
	return openStore(ctx, e.cfg.Store)
}

func (e *env) snapshotOptions() []snapshot.Option {
	return []snapshot.Option{
		snapshot.WithLogger(e.logger),
		snapshot.WithConcurrency(e.cfg.Snapshot.Concurrency),
		snapshot.WithBandwidth(e.cfg.Snapshot.Bandwidth),
	}
}

func runSnapshot(ctx context.Context, e *env, cmd string, args []string) error {
	store, err := e.store(ctx)
	if err != nil {
		return err
	}

	switch cmd {
	case "export":
		if len(args) != 1 {
			return usageErr("export <dir>")
		}
		m, err := snapshot.Export(ctx, args[0], store, e.snapshotOptions()...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, m.ID)
		return err

	case "import":
		if len(args) != 2 {
			return usageErr("import <id> <dir>")
		}
		return snapshot.Import(ctx, store, args[0], args[1], e.snapshotOptions()...)

	default: // snapshots
		if len(args) != 0 {
			return usageErr("snapshots")
		}
		list, err := snapshot.List(ctx, store)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tAXES\tBYTES")
		for _, m := range list {
			fmt.Fprintf(tw, "%s\t%s\t%v\t%d\n", m.ID, m.CreatedAt.Format(time.RFC3339), m.Axes, m.TotalSize())
		}
		return tw.Flush()
	}
}
