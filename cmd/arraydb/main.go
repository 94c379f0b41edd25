// Command arraydb creates, links, writes, reads and snapshots arraydb
// databases from the shell.
//
// Usage:
//
//	arraydb [-type u64] [-config file] [-log-level info] [-store dir] [-unchecked] <command> args...
//
// Commands:
//
//	create    <dir> <m1> ... <mN>
//	link      <dir> <x1> ... <xN-1>
//	islinked  <dir> <x1> ... <xK>
//	write     <dir> <value> <x1> ... <xN>
//	read      <dir> <x1> ... <xN>
//	stream    <dir> <n> <x1> ... <xN>
//	check     <dir>
//	export    <dir>
//	import    <id> <dir>
//	snapshots
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/hupe1980/arraydb"
	"github.com/hupe1980/arraydb/codec"
)

var errUsage = errors.New("usage")

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "arraydb: %v\n", err)
		}
		os.Exit(1)
	}
}

func mainImpl() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// env carries the global flags and collaborators into a command.
type env struct {
	stdout    io.Writer
	logger    *arraydb.Logger
	cfg       *Config
	storePath string
	unchecked bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fset := flag.NewFlagSet("arraydb", flag.ContinueOnError)
	fset.SetOutput(stderr)
	typ := fset.String("type", "u64", "Storage type ("+strings.Join(codec.Names(), ", ")+")")
	configPath := fset.String("config", "", "YAML configuration file (log level, snapshot store)")
	logLevel := fset.String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	storePath := fset.String("store", "", "Local directory used as snapshot store; overrides the config file")
	unchecked := fset.Bool("unchecked", false, "Skip validation; create truncates existing files")
	fset.Usage = func() {
		fmt.Fprintln(stderr, "usage: arraydb [flags] <create|link|islinked|write|read|stream|check|export|import|snapshots> args...")
		fset.PrintDefaults()
	}
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() == 0 {
		fset.Usage()
		return errUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	e := &env{
		stdout:    stdout,
		logger:    newLogger(stderr, level),
		cfg:       cfg,
		storePath: *storePath,
		unchecked: *unchecked,
	}

	cmd, cmdArgs := fset.Arg(0), fset.Args()[1:]
	switch cmd {
	case "export", "import", "snapshots":
		return runSnapshot(ctx, e, cmd, cmdArgs)
	}

	switch *typ {
	case "u64":
		return runData(ctx, e, u64Type, cmd, cmdArgs)
	case "i16":
		return runData(ctx, e, i16Type, cmd, cmdArgs)
	case "f64":
		return runData(ctx, e, f64Type, cmd, cmdArgs)
	case "nf64":
		return runData(ctx, e, nf64Type, cmd, cmdArgs)
	case "text":
		return runData(ctx, e, textType, cmd, cmdArgs)
	default:
		return fmt.Errorf("unknown type %q (want one of %s)", *typ, strings.Join(codec.Names(), ", "))
	}
}

// newLogger writes coloured logs when w is a terminal.
func newLogger(w io.Writer, level slog.Level) *arraydb.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
		w = colorable.NewColorable(f)
	}
	return arraydb.NewLogger(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	}))
}
