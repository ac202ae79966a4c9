package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"go.uber.org/zap"

	server "usergraph/internal/adapter/http"
	"usergraph/internal/adapter/telemetry"
	"usergraph/pkg/config"
	"usergraph/pkg/logger"
)

const serviceVersion = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()

	if err != nil {
		panic(err)
	}

	logger.Init(cfg.Telemetry.ServiceName, cfg.Environment, cfg.Debug)

	zapLogger, err := zap.NewProduction()

	if err != nil {
		log.Fatal().Err(err).Msg("zap_init_failed")
	}

	defer zapLogger.Sync()

	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.Server.MetricsPort,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		TracingEnabled: cfg.Telemetry.Enabled,
	})

	if err != nil {
		log.Fatal().Err(err).Msg("telemetry_init_failed")
	}

	defer tel.Shutdown(context.Background())

	container, err := server.NewContainer(ctx, cfg, tel.AppMetrics)

	if err != nil {
		log.Fatal().Err(err).Msg("container_init_failed")
	}

	defer container.Close()

	router := server.NewRouter(cfg, container, tel.AppMetrics, zapLogger)

	if err := server.StartServer(ctx, cfg, router); err != nil {
		log.Fatal().Err(err).Msg("server_failed")
	}
}
