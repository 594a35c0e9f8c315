// Command pdfdocx converts batches of PDF files to Word documents.
//
// It resolves files and directories into a list of PDFs, converts them
// concurrently with a per-file timeout, and reports converted, skipped and
// failed files. See "pdfdocx --help" for the subcommands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// SIGINT/SIGTERM cancel the batch: queued files never start and the
	// summary is still printed.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "pdfdocx: %v\n", err)
		}
		return 1
	}
	return 0
}
