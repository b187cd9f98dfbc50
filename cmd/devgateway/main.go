package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"StoreAdmin/internal/config"
	"StoreAdmin/internal/devgateway"
	"StoreAdmin/pkg/kit"
)

func main() {
	service := "devgateway"
	config.LoadEnv()

	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg := config.LoadDevGateway()

	store, closeStore := openStore(cfg, log)
	defer closeStore()

	s := &devgateway.Server{Store: store, Token: cfg.Token, Log: log}

	h := devgateway.NewHandler(s, devgateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   config.Getenv("METRICS_TOKEN", ""),
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(cfg config.DevGateway, log *zap.Logger) (devgateway.Store, func()) {
	if cfg.DatabaseURL == "" {
		log.Info("using seeded in-memory store")
		return devgateway.NewStore(), func() {}
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg := devgateway.NewPostgresStore(db)
	if err := pg.Migrate(ctx); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	log.Info("using postgres store")
	return pg, func() { _ = db.Close() }
}
