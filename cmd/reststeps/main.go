// Command reststeps runs Cucumber features against the catalogued banking
// endpoints, and carries the tools used while writing them: a body mutator,
// the OpenAPI document of the catalog and a local backend stub.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
