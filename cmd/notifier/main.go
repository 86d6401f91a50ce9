package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/farm2market/market-api/internal/config"
	kafkax "github.com/farm2market/market-api/internal/kafka"
	"github.com/farm2market/market-api/internal/logx"
	"github.com/farm2market/market-api/internal/market"
	"github.com/farm2market/market-api/internal/metrics"
	"github.com/farm2market/market-api/internal/notifier"
	"github.com/farm2market/market-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := logx.New(cfg.ServiceName + "-notifier")
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Sender:      notifier.NewWebhookSender(cfg.NotifyURL),
		Redis:       rdb,
		Log:         log,
		Metrics:     metrics.New(),
		ServiceName: cfg.ServiceName + "-notifier",
	}

	cons := kafkax.NewConsumer(cfg.Brokers(), cfg.NotifierGroup, market.TopicOrderSettled, cfg.NotifierWorkers, log)

	go func() {
		log.Info("notifier consumer started",
			zap.String("group", cfg.NotifierGroup),
			zap.String("topic", market.TopicOrderSettled),
			zap.Int("workers", cfg.NotifierWorkers))
		if err := cons.Start(ctx, svc.HandleOrderSettled); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
