// Fixture Dental Application
//
// A small server-rendered dental records application with the pages the
// journey plans walk through: login, dashboard, patient registration,
// appointments, reports, users, backup and logout. Use it to try journey
// locally or as the target of the e2e tests.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thesyncim/journey/cmd/fixture-app/server"
)

func main() {
	cfg := server.DefaultConfig()
	cfg.Addr = ":5173"

	cmd := &cobra.Command{
		Use:           "fixture-app",
		Short:         "Serve the fixture dental application",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	f.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (\":memory:\" for a throwaway store)")
	f.StringVar(&cfg.Email, "email", cfg.Email, "login e-mail")
	f.StringVar(&cfg.Password, "password", cfg.Password, "login password")
	f.StringSliceVar(&cfg.BrokenPages, "broken", nil, "paths to answer with a bare 500 (e.g. /reports)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("fixture-app: %v", err)
	}
}

func serve(ctx context.Context, cfg server.Config) error {
	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	addr, err := srv.Start()
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	fmt.Printf(`
Fixture Dental Application
==========================
Login:  %s / %s
Open:   %s

Run a journey against it:
  go run ./cmd/journey --base-url %s
`, cfg.Email, cfg.Password, srv.URL(), srv.URL())

	log.Printf("Listening on %s", addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
