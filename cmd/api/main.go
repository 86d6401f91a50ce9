package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/farm2market/market-api/internal/auth"
	"github.com/farm2market/market-api/internal/cart"
	"github.com/farm2market/market-api/internal/config"
	"github.com/farm2market/market-api/internal/httpx"
	kafkax "github.com/farm2market/market-api/internal/kafka"
	"github.com/farm2market/market-api/internal/logx"
	"github.com/farm2market/market-api/internal/market"
	"github.com/farm2market/market-api/internal/metrics"
	"github.com/farm2market/market-api/internal/postgres"
	"github.com/farm2market/market-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := logx.New(cfg.ServiceName)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for settlement events
	prod := kafkax.NewProducer(cfg.Brokers(), market.TopicOrderSettled, 1024, log)
	prod.Start(ctx)

	// Wiring
	m := metrics.New()
	repo := &market.Repo{DB: db}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authn := auth.Middleware(tokens)
	admin := auth.RequireRole(auth.RoleAdmin)
	farmer := auth.RequireRole(auth.RoleFarmer)

	router := httpx.NewRouter()
	(&httpx.AuthHandler{Users: &auth.UserRepo{DB: db}, Tokens: tokens, Log: log}).Register(router)
	(&httpx.ProductsHandler{Store: repo, Log: log}).Register(router, authn, farmer)
	(&httpx.CartHandler{Store: &cart.Store{Redis: rdb}, Log: log}).Register(router, authn)
	(&httpx.OrdersHandler{
		Store:    repo,
		Producer: prod,
		Redis:    rdb,
		Log:      log,
		Metrics:  m,
		FeeRate:  cfg.PlatformFeeRate,
		Service:  cfg.ServiceName,
	}).Register(router, authn, admin)
	(&httpx.TransactionsHandler{
		Store:   repo,
		Cart:    &cart.Store{Redis: rdb},
		Log:     log,
		Metrics: m,
	}).Register(router, authn)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
