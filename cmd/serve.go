package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/babytube/internal/server"
	"github.com/desertthunder/babytube/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve migrates and seeds the local database, then serves the playlist API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.openCatalog(ctx)
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	router := server.NewRouter(svc, r.titleService(), logger)
	srv := server.NewServer(cfg, router, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
