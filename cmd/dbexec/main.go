package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/kvanta-io/dbexec/internal/cli"
	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(dbexec.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(dbexec.ExitCodeForError(err))
	}
}
