// Command gbaxfer sends a multiboot ROM image to a console over a serial link
// adapter.
//
// Usage:
//
//	gbaxfer [flags] <serial-device> <rom-file>
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
