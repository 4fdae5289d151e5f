package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	v1 "github.com/vmunix/flixcase/internal/api/v1"
	"github.com/vmunix/flixcase/internal/server"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the playback API",
		Long: `Serves the JSON API used by media players to browse the library and
save playback positions, plus Prometheus metrics at /metrics.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	serveCmd.Flags().String("addr", "", "Listen address (default: from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.Addr()
	}

	api, err := v1.New(v1.ServerDeps{
		Catalog:     a.store,
		Library:     a.lib,
		EventLog:    a.evlog,
		Logger:      a.logger,
		ResumeLimit: a.cfg.Resume.Limit,
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.Handler())
	mux.Handle("GET /metrics", promhttp.Handler())

	a.logger.Info("server starting",
		"addr", addr,
		"library", a.lib.Root(),
		"catalog", a.cfg.DatabasePath(),
		"config", a.configPath,
	)

	ctx, stop := interruptContext(cmd)
	defer stop()

	runner := server.NewRunner(server.Config{
		Addr:           addr,
		EventRetention: a.cfg.EventRetention(),
	}, mux, a.evlog, a.logger)
	return runner.Run(ctx)
}
