package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"

	shutdownTimeout = 5 * time.Second
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags. When reg is not
// nil, the application registers its metrics with it.
type AppGenerator func(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error)

// StartCmd runs the ABCI socket server until the process receives an
// interrupt. When a metrics address is configured, collected metrics are
// served over HTTP under /metrics.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return start(gen, logger)
		},
	}
	cmd.Flags().String(flagBind, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().Bool(flagDebug, false, "call stack returned on error")
	cmd.Flags().String(flagMetrics, "", "address the metrics HTTP server listens on, disabled when empty")
	for _, name := range []string{flagBind, flagDebug, flagMetrics} {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func start(gen AppGenerator, logger log.Logger) error {
	var (
		addr        = viper.GetString(flagBind)
		debug       = viper.GetBool(flagDebug)
		metricsAddr = viper.GetString(flagMetrics)
	)

	var reg *prometheus.Registry
	if metricsAddr != "" {
		reg = prometheus.NewRegistry()
	}

	// Generate the app in the proper dir
	app, err := gen(viper.GetString(flagHome), logger, debug, registerer(reg))
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return fmt.Errorf("cannot create listener: %v", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return fmt.Errorf("cannot start abci server: %v", err)
	}

	var metrics *http.Server
	if reg != nil {
		metrics = &http.Server{Addr: metricsAddr, Handler: MetricsRouter(reg)}
		go func() {
			logger.Info("Serving metrics", "addr", metricsAddr)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
	}

	// Wait forever
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down")

	if metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metrics.Shutdown(ctx); err != nil {
			logger.Error("Metrics server shutdown", "err", err)
		}
	}
	return svr.Stop()
}

// registerer avoids passing a typed nil as the interface.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}

// MetricsRouter returns the HTTP handler exposing metrics gathered by g.
func MetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
