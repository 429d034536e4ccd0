package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/tpformat/internal/api"
	"github.com/TimurManjosov/tpformat/internal/config"
	"github.com/TimurManjosov/tpformat/internal/formatter"
	"github.com/TimurManjosov/tpformat/internal/logging"
	"github.com/TimurManjosov/tpformat/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	logger = logger.With().Str("env", cfg.AppEnv).Logger()

	telemetry.Init()
	shutdownTracing, err := telemetry.InitTracing(context.Background(), cfg.OTLPEndpoint, "tpformat")
	if err != nil {
		logger.Fatal().Err(err).Msg("tracing")
	}

	f := formatter.New(formatter.WithPolicy(cfg.Policy()), formatter.WithLogger(logger))
	srvAPI := api.NewServer(f, logger, api.Options{
		MaxDocumentBytes: cfg.MaxDocumentBytes,
		RateLimitPerIP:   cfg.RateLimitPerIP,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srvAPI.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 3 * time.Second,
	}

	serve(logger, "api", srv)
	serve(logger, "metrics", metricsSrv)

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	_ = metricsSrv.Shutdown(ctxShut)
	_ = shutdownTracing(ctxShut)
	logger.Info().Msg("stopped")
}

func serve(logger zerolog.Logger, name string, srv *http.Server) {
	go func() {
		logger.Info().Str("server", name).Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Str("server", name).Msg("server")
		}
	}()
}
