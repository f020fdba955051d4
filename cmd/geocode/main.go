// Command geocode geocodes locations from the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/geokit/internal/cli"
)

func main() {
	// A closed stdout must surface as EPIPE on write instead of killing the
	// process.
	signal.Notify(make(chan os.Signal, 1), syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
