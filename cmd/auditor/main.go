package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/campuscanteen/canteen/internal/audit"
	"github.com/campuscanteen/canteen/internal/canteen"
	"github.com/campuscanteen/canteen/internal/config"
	kafkax "github.com/campuscanteen/canteen/internal/kafka"
	"github.com/campuscanteen/canteen/internal/logging"
	"github.com/campuscanteen/canteen/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	name := cfg.ServiceName + "-auditor"
	log := logging.New(name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &audit.Service{Redis: rdb, Log: log, ServiceName: name}

	group := getenv("AUDITOR_GROUP", "canteen-auditor")
	workers := mustAtoi(os.Getenv("AUDITOR_WORKERS"), 4)

	placed := kafkax.NewConsumer(log, cfg.KafkaBrokers, group, canteen.TopicOrderPlaced, workers)
	status := kafkax.NewConsumer(log, cfg.KafkaBrokers, group, canteen.TopicOrderStatus, workers)

	go func() {
		log.Info("auditor consumer started", "topic", canteen.TopicOrderPlaced, "group", group, "workers", workers)
		if err := placed.Start(ctx, svc.HandleOrderPlaced); err != nil {
			log.Error("consumer exit", "topic", canteen.TopicOrderPlaced, "err", err)
			cancel()
		}
	}()
	go func() {
		log.Info("auditor consumer started", "topic", canteen.TopicOrderStatus, "group", group, "workers", workers)
		if err := status.Start(ctx, svc.HandleStatusChanged); err != nil {
			log.Error("consumer exit", "topic", canteen.TopicOrderStatus, "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down auditor")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
