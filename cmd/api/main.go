package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vyhuholl/order-management-rest-api/internal/auth"
	apihttp "github.com/vyhuholl/order-management-rest-api/internal/http"
	"github.com/vyhuholl/order-management-rest-api/internal/http/handlers"
	"github.com/vyhuholl/order-management-rest-api/internal/migrate"
	"github.com/vyhuholl/order-management-rest-api/internal/notify"
	"github.com/vyhuholl/order-management-rest-api/internal/repo"
	"github.com/vyhuholl/order-management-rest-api/internal/service"
	"github.com/vyhuholl/order-management-rest-api/pkg/cache"
	"github.com/vyhuholl/order-management-rest-api/pkg/config"
	"github.com/vyhuholl/order-management-rest-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Common.ServiceName, cfg.Common.LogLevel)

	// Postgres
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("pg connect failed")
	}
	defer db.Close()

	if cfg.Postgres.MigrateOnRun {
		mctx, mcancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := (&migrate.Migrator{DB: db, Log: log}).Up(mctx)
		mcancel()
		if err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		log.Info().Int("applied", n).Msg("migrations done")
	}

	// Redis is optional: without it every read goes to Postgres.
	var (
		orderCache service.OrderCache
		cachePing  handlers.Pinger
	)
	if cfg.Redis.URL == "" {
		log.Info().Msg("REDIS_URL empty, cache disabled")
	} else if rdb, err := cache.NewFromURL(cfg.Redis.URL); err != nil {
		log.Warn().Err(err).Msg("bad redis url, cache disabled")
	} else {
		defer func() { _ = rdb.Close() }()
		if err := rdb.WaitReady(ctx, 3*time.Second); err != nil {
			log.Warn().Err(err).Msg("redis not ready yet, reads fall back to postgres until it is")
		}
		orderCache = &repo.OrdersCache{Backend: rdb, TTL: cfg.Redis.TTL(), Log: log}
		cachePing = rdb
	}

	// RabbitMQ is dialled lazily; a down broker never blocks startup.
	notifier := notify.NewRabbitNotifier(cfg.Rabbit.URL, cfg.Rabbit.NewOrderQueue, cfg.Common.ServiceName, log)
	dialCtx, dialCancel := context.WithTimeout(context.Background(), 3*time.Second)
	err = notifier.Connect(dialCtx)
	dialCancel()
	if err != nil {
		log.Warn().Err(err).Msg("rabbit not reachable, will retry on publish")
	}
	defer func() { _ = notifier.Close() }()

	tokens, err := auth.NewTokenMaker(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.TTL())
	if err != nil {
		log.Fatal().Err(err).Msg("token maker")
	}

	orderStore := &repo.OrdersPG{DB: db}
	users := &service.UsersService{
		Store:  &repo.UsersPG{DB: db},
		Hasher: auth.NewArgon2Hasher(),
		Tokens: tokens,
		Log:    log,
	}
	orders := service.NewOrdersService(orderStore, orderCache, notifier, log)

	router := apihttp.NewRouter(apihttp.Options{
		Service:     cfg.Common.ServiceName,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Log:         log,
	}, &apihttp.Handlers{
		Ready:       &handlers.ReadyHandler{Store: orderStore, Cache: cachePing},
		Register:    &handlers.RegisterHandler{Users: users},
		Token:       &handlers.TokenHandler{Users: users},
		CreateOrder: &handlers.CreateOrderHandler{Orders: orders},
		ListOrders:  &handlers.ListOrdersHandler{Orders: orders},
		GetOrder:    &handlers.GetOrderHandler{Orders: orders},
		PatchOrder:  &handlers.PatchOrderHandler{Orders: orders},
		Auth:        handlers.AuthJWT(users),
		RootLimiter: handlers.NewIPRateLimiter(5, time.Minute),
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// run server
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutdown...")

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)

	// let in-flight notifications finish before the broker connection closes
	orders.Wait()
}
