package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	crmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/anvil-platform/moneta/internal/config"
	"github.com/anvil-platform/moneta/internal/discovery"
	"github.com/anvil-platform/moneta/internal/grpcapi"
	"github.com/anvil-platform/moneta/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the amount registry over gRPC",
	Long: `Serve the amount registry over gRPC and expose Prometheus metrics.

When providers.dir is set the directory is watched and the catalog is
rebuilt on every manifest change. A reload that fails keeps the previous
catalog live.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().String("grpc-addr", "", "gRPC listen address (default :9090)")
	serveCmd.Flags().String("metrics-addr", "", "metrics listen address (default :8080), empty to disable")
	_ = viper.BindPFlag(config.KeyServerGRPCAddr, serveCmd.Flags().Lookup("grpc-addr"))
	_ = viper.BindPFlag(config.KeyServerMetricsAddr, serveCmd.Flags().Lookup("metrics-addr"))
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config) error {
	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	svc := buildService(cfg)
	if _, err := svc.Reload(ctx); err != nil {
		return err
	}

	srv := grpcapi.NewServer(svc.Resolver(),
		grpcapi.WithTracer(tp.Tracer()),
		grpcapi.WithLogger(logger.WithName("grpc")),
	)

	var watcher *discovery.Watcher
	var changes <-chan struct{}
	if cfg.Providers.Dir != "" {
		watcher, err = discovery.NewWatcher(discovery.WatcherConfig{
			Dir:    cfg.Providers.Dir,
			Logger: logger.WithName("watcher"),
		})
		if err != nil {
			return err
		}
		if changes, err = watcher.Start(); err != nil {
			_ = watcher.Stop()
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("serving amount registry", "address", cfg.Server.GRPCAddr)
		return grpcapi.Serve(ctx, cfg.Server.GRPCAddr, srv)
	})

	if cfg.Server.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, cfg.Server.MetricsAddr, crmetrics.Registry)
		})
	}

	if changes != nil {
		g.Go(func() error {
			defer func() { _ = watcher.Stop() }()
			return svc.Run(ctx, changes)
		})
	}

	return g.Wait()
}

func serveMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	s := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
