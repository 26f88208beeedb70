// Command medal-report prints the 2008 Olympic medalists report in a terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("medal-report: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
