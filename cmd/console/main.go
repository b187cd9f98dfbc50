package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"StoreAdmin/internal/commerce"
	"StoreAdmin/internal/config"
	"StoreAdmin/internal/console"
	"StoreAdmin/pkg/kit"
)

const initialLoadTimeout = 15 * time.Second

func main() {
	service := "console"
	config.LoadEnv()

	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg := config.LoadConsole()
	if cfg.GatewayToken == "" {
		log.Warn("GATEWAY_TOKEN is empty, gateway calls will be rejected")
	}

	reg := prometheus.NewRegistry()

	client := commerce.NewClient(cfg.GatewayURL, cfg.GatewayToken, cfg.GatewayTimeout)
	client.Log = log
	client.Metrics = commerce.NewMetrics(reg)

	s := console.NewServer(client, log)

	ctx, cancel := context.WithTimeout(context.Background(), initialLoadTimeout)
	if err := s.Load(ctx); err != nil {
		log.Warn("initial load failed, serving empty view", zap.Error(err))
	}
	cancel()

	h := console.NewHandler(s, console.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   cfg.MetricsToken,
	})

	log.Info("console configured",
		zap.String("gateway_url", cfg.GatewayURL),
		zap.Duration("gateway_timeout", cfg.GatewayTimeout),
	)

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
