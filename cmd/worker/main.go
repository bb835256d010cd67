package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vyhuholl/order-management-rest-api/internal/worker"
	"github.com/vyhuholl/order-management-rest-api/pkg/config"
	"github.com/vyhuholl/order-management-rest-api/pkg/logger"
	"github.com/vyhuholl/order-management-rest-api/pkg/rabbit"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		panic(err)
	}
	log := logger.New("order-worker", cfg.Common.LogLevel)

	dialCtx, dialCancel := context.WithTimeout(context.Background(), rabbit.DialTimeout)
	rc, err := rabbit.Connect(dialCtx, cfg.Rabbit.URL)
	dialCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("rabbit connect failed")
	}
	defer func() { _ = rc.Close() }()

	if err := rabbit.DeclareQueue(rc.Ch, cfg.Rabbit.NewOrderQueue); err != nil {
		log.Fatal().Err(err).Msg("declare queue failed")
	}

	sub := rabbit.NewConsumer(rc.Ch, "order-worker")
	deliveries, err := sub.Consume(cfg.Rabbit.NewOrderQueue, 1)
	if err != nil {
		log.Fatal().Err(err).Msg("consume failed")
	}

	consumer := &worker.Consumer{
		Processor: &worker.SimulatedProcessor{Delay: cfg.Worker.ProcessDelay, Log: log},
		Log:       log,
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.Run(appCtx, deliveries)
	}()

	httpSrv := &http.Server{
		Addr:              cfg.Worker.HTTPAddr,
		Handler:           worker.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("http started")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http failed")
		}
	}()

	log.Info().Str("queue", cfg.Rabbit.NewOrderQueue).Msg("order-worker started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-done:
		log.Error().Msg("consumer exited, broker connection lost")
	}

	log.Info().Msg("shutdown...")
	if err := sub.Cancel(); err != nil {
		log.Warn().Err(err).Msg("consumer cancel failed")
	}
	cancel()
	<-done

	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = httpSrv.Shutdown(shCtx)
}
