package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/Purgs-Association/Purgs/internal/purgs/compile"
	"github.com/Purgs-Association/Purgs/internal/purgs/config"
	"github.com/Purgs-Association/Purgs/internal/purgs/ctxlog"
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: playground [flags]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Without -watch, starts an interactive session: type markup, end it with an")
		_, _ = fmt.Fprintln(os.Stderr, "empty line, and see the result. :tokens, :tree, :html and :go switch what is")
		_, _ = fmt.Fprintln(os.Stderr, "shown; :quit leaves.")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "With -watch, recompiles the file to stdout every time it changes.")
		_, _ = fmt.Fprintln(os.Stderr, "")
		flag.PrintDefaults()
	}
	watchFlag := flag.String("watch", "", "source file to watch")
	interval := flag.Duration("interval", 300*time.Millisecond, "watch polling interval")
	emit := flag.String("emit", config.EmitHTML, "watch output kind: 'html' or 'go'")
	history := flag.String("history", defaultHistoryPath(), "REPL history file; empty disables history")
	logLevel := flag.String("log-level", "info", "logging level: 'debug', 'info', 'warn', or 'error'")
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, ctxlog.New(os.Stderr, *logLevel, "text"))

	if *watchFlag == "" {
		if err := repl(ctx, *history, os.Stdout); err != nil {
			fatal(err)
		}
		return
	}

	opts := compile.OptionsFrom(config.Default())
	opts.Emit = *emit
	if err := watch(ctx, *watchFlag, *interval, opts, os.Stdout); err != nil {
		fatal(err)
	}
}

// watch polls path and writes its compiled form to out on every content
// change, until ctx is done. Compile errors are logged and watching goes on.
func watch(ctx context.Context, path string, interval time.Duration, opts compile.Options, out io.Writer) error {
	logger := ctxlog.FromContext(ctx).With("file", path)

	var lastHash [32]byte
	var have bool

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		src, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Read failed.", "error", err)
		} else if h := sha256.Sum256(src); !have || h != lastHash {
			lastHash = h
			have = true

			res, err := compile.CompileFile(ctx, path, src, opts)
			if err != nil {
				logger.Error("Compile failed.", "error", err)
			} else {
				_, _ = fmt.Fprintf(out, "%s\n", res)
				logger.Debug("Recompiled.", "bytes", len(res))
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
