package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/compose/pkg/server"
)

func serveCmd(configDir *string) *cobra.Command {
	var (
		port  int
		host  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the component server",
		Long: `Start the HTTP/WebSocket component server.

Routes:
  GET  /components/{name}   render a component
  GET  /ws                  live session
  GET  /metrics             Prometheus metrics (telemetry.metrics)

Examples:
  compose serve
  compose serve --port=9000 --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if watch {
				cfg.Registry.Watch = true
			}

			logger := newLogger(cfg, os.Stderr)
			st := newStack(cfg, logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			st.preload(ctx)
			st.watch(ctx)

			srvConfig := &server.ServerConfig{
				Address:       cfg.Address(),
				RenderTimeout: cfg.RenderTimeout(),
				Names:         st.names(),
				Logger:        logger.With("component", "server"),
			}
			if st.gatherer != nil {
				srvConfig.Gatherer = st.gatherer
				srvConfig.Registerer = st.gatherer
				srvConfig.Namespace = cfg.Telemetry.Namespace
			}

			printBanner()
			info("source:  %s", cfg.Registry.Source)
			info("address: http://%s", cfg.Address())
			fmt.Println()

			return server.New(st.engine(), srvConfig).Run()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from compose.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from compose.json)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload changed components (dir source)")

	return cmd
}
