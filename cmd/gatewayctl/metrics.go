package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kevin07696/awesomesauce-gateway/pkg/observability"
	"github.com/kevin07696/awesomesauce-gateway/pkg/shutdown"
	"github.com/spf13/cobra"
)

var metricsPort int

// serveMetricsCmd represents the serve-metrics command
var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Serve Prometheus metrics and health checks until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		port := a.cfg.Metrics.Port
		if cmd.Flags().Changed("port") {
			port = metricsPort
		}

		var db observability.Pinger
		if a.pool != nil {
			db = a.pool
		}

		server := observability.StartMetricsServer(port, observability.NewHealthChecker(db, a.transport.State), a.logger)

		sm := shutdown.NewManager(a.logger, 10*time.Second)
		sm.RegisterNoErr("app", a.close)
		sm.Register("metrics-server", func(ctx context.Context) error {
			return observability.ShutdownMetricsServer(ctx, server)
		})

		if errs := sm.WaitForShutdown(context.Background()); len(errs) > 0 {
			return fmt.Errorf("shutdown failed for %d component(s)", len(errs))
		}
		return nil
	},
}

func init() {
	serveMetricsCmd.Flags().IntVar(&metricsPort, "port", 9090, "Port for /metrics, /health and /ready")
	rootCmd.AddCommand(serveMetricsCmd)
}
