package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campuscanteen/canteen/internal/canteen"
	"github.com/campuscanteen/canteen/internal/config"
	"github.com/campuscanteen/canteen/internal/httpx"
	kafkax "github.com/campuscanteen/canteen/internal/kafka"
	"github.com/campuscanteen/canteen/internal/logging"
	"github.com/campuscanteen/canteen/internal/postgres"
	"github.com/campuscanteen/canteen/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	placed := kafkax.NewProducer(log, cfg.KafkaBrokers, canteen.TopicOrderPlaced, 1024)
	placed.Start(ctx)
	status := kafkax.NewProducer(log, cfg.KafkaBrokers, canteen.TopicOrderStatus, 1024)
	status.Start(ctx)

	svc := canteen.NewService(&canteen.Repo{DB: db}, log)

	router := httpx.NewRouter()
	h := &httpx.Handler{
		Svc:            svc,
		Redis:          rdb,
		PlacedProducer: placed,
		StatusProducer: status,
		Log:            log,
		Service:        cfg.ServiceName,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	// close inboxes so the producer loops flush and exit before cancel
	placed.Close()
	status.Close()
	placed.WaitClosed()
	status.WaitClosed()
	cancel()
}
