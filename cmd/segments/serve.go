package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/drakos74/free-segments/internal/artifact"
	"github.com/drakos74/free-segments/internal/metrics"
	"github.com/drakos74/free-segments/internal/segment"
	"github.com/drakos74/free-segments/internal/server"
	"github.com/drakos74/free-segments/internal/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the upload page and the scoring api",
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 6090, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)

	set := artifact.MustLoad(cfg.Artifacts.Scaler, cfg.Artifacts.Model)
	m := metrics.New()
	app := web.New(segment.NewScorer(set), m, cfg.Preview)

	srv := server.NewServer(cfg.Server.Name, cfg.Server.Port).
		Add(app.Routes()...).
		Handle("/metrics", m.Handler())
	if cfg.Server.Debug {
		srv.Debug()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
