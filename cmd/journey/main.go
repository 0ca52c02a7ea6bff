// Command journey runs browser acceptance journeys against a running web
// application.
//
// Usage:
//
//	go run ./cmd/journey --base-url http://localhost:5173
//	go run ./cmd/journey run --plan dental-extended --headless
//	go run ./cmd/journey probe
//
// SIGINT and SIGTERM stop the journey after the current step; the browser
// is still closed and the partial summary is printed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thesyncim/journey/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
