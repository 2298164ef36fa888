package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr        string
		stylesheets []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve forms over HTTP without client-side scripts",
		Long: `serve renders every loaded form at /forms/{key}. A POST validates the
submitted values, forwards them to the form action and re-renders the form
with field errors or the response banner. Prometheus metrics are exposed at
/metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			collector := metrics.New(metrics.WithRegistry(registry))

			logger := slog.Default().With("component", "formflow.serve")
			gen, err := newOrchestrator(ctx, flags,
				orchestrator.WithLogger(logger),
				orchestrator.WithControllerOptions(controller.WithObserver(collector)),
			)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr: addr,
				Handler: newServer(gen, serverConfig{
					Locale:      flags.locale,
					Stylesheets: stylesheets,
					Gatherer:    registry,
					Logger:      logger,
				}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr, "forms", gen.Store().Keys())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&stylesheets, "stylesheet", nil, "stylesheet URLs linked from every page")

	return cmd
}
