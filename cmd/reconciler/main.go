package main

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/azharstore/storefront-gateway/internal/config"
	"github.com/azharstore/storefront-gateway/internal/events"
	kafkax "github.com/azharstore/storefront-gateway/internal/kafka"
	"github.com/azharstore/storefront-gateway/internal/logging"
	"github.com/azharstore/storefront-gateway/internal/postgres"
	"github.com/azharstore/storefront-gateway/internal/recon"
	"github.com/azharstore/storefront-gateway/internal/redisx"
	"github.com/azharstore/storefront-gateway/internal/shutdown"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(logging.Options{
		Service: cfg.ServiceName + "-reconciler",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &recon.Service{
		Ledger: &recon.Ledger{DB: db},
		Dedup:  &redisx.Dedup{Client: rdb, Service: "reconciler"},
		Logger: log,
	}

	group := getenv("RECON_GROUP", "checkout-reconciler")
	workers := atoiDefault(os.Getenv("RECON_WORKERS"), 4)

	// one consumer per checkout topic, same handler
	g, ctx := errgroup.WithContext(ctx)
	for _, topic := range []string{events.TopicCheckoutOrphaned, events.TopicCheckoutCompleted} {
		topic := topic
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		g.Go(func() error {
			log.Info("consumer started", "group", group, "topic", topic, "workers", workers)
			return cons.Start(ctx, svc.HandleCheckoutEvent)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("consumer exit", "error", err)
		os.Exit(1)
	}
	log.Info("reconciler stopped")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
