package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	config "github.com/ari4325/real-time-notification-system/internal/config/notifier"
	"github.com/ari4325/real-time-notification-system/internal/obs"
	"github.com/ari4325/real-time-notification-system/internal/obs/retry"
	"github.com/ari4325/real-time-notification-system/internal/realtime"
	"github.com/ari4325/real-time-notification-system/internal/repository/kafka"
	pg "github.com/ari4325/real-time-notification-system/internal/repository/postgres"
	"github.com/ari4325/real-time-notification-system/internal/services/notifier"
	"github.com/ari4325/real-time-notification-system/internal/transport/httpapi"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(obs.LogConfig{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "notifier"})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	l.Info("starting notifier",
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("http_addr", cfg.Server.HTTPAddr),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
	)

	// db
	db, err := pg.NewDB(rootCtx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	l.Info("db connected")

	// metrics
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return db.Pool.Ping(hctx)
	}, l)

	// kafka
	prod := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(l)
	defer func() { _ = prod.Close() }()

	cons := kafka.BootstrapConsumer(rootCtx, cfg.Kafka.AsConsumerConfig(), l).WithLogger(l)
	defer func() { _ = cons.Close() }()

	// wiring
	hub := realtime.NewHub(l)
	repo := pg.NewNotificationRepo(db)
	events := kafka.NewNotificationEvents(prod)
	uc := notifier.NewUsecase(l, repo, events, retry.DefaultPublishPolicy(l))
	ctrl := &notifier.Controller{Log: l, Sub: cons, Hub: hub}

	errCh := make(chan error, 2)
	go func() {
		l.Info("consumer controller starting")
		errCh <- ctrl.Run(rootCtx)
	}()

	srv := &http.Server{
		Addr:        cfg.Server.HTTPAddr,
		Handler:     httpapi.NewRouter(l, uc, hub, httpapi.RouterConfig{JWTSecret: cfg.Auth.JWTSecret, SendBuffer: cfg.Server.SendBuffer}),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		l.Info("http listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-rootCtx.Done():
		l.Info("shutdown signal")
	case runErr = <-errCh:
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			l.Error("runtime error", zap.Error(runErr))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	if !uc.DrainPublishes(cfg.Server.ShutdownTimeout) {
		l.Warn("in-flight publishes not drained")
	}
	hub.Shutdown()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
