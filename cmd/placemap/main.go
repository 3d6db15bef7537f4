// Command placemap browses a set of places on a terminal map with a
// searchable list beside it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		os.Stderr.WriteString("placemap: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
