package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/azharstore/storefront-gateway/internal/api"
	"github.com/azharstore/storefront-gateway/internal/cart"
	"github.com/azharstore/storefront-gateway/internal/catalog"
	"github.com/azharstore/storefront-gateway/internal/checkout"
	"github.com/azharstore/storefront-gateway/internal/config"
	"github.com/azharstore/storefront-gateway/internal/events"
	"github.com/azharstore/storefront-gateway/internal/httpx"
	kafkax "github.com/azharstore/storefront-gateway/internal/kafka"
	"github.com/azharstore/storefront-gateway/internal/logging"
	"github.com/azharstore/storefront-gateway/internal/postgres"
	"github.com/azharstore/storefront-gateway/internal/recon"
	"github.com/azharstore/storefront-gateway/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(logging.Options{Service: cfg.ServiceName, Env: cfg.Env, Level: cfg.LogLevel})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per checkout topic
	pCompleted := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCheckoutCompleted, 1024)
	pCompleted.Start(ctx)
	pOrphaned := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCheckoutOrphaned, 1024)
	pOrphaned.Start(ctx)

	// Upstream API: public calls carry no credential, the admin surface does.
	public := api.NewClient(cfg.APIBaseURL, "", cfg.APITimeout)
	admin := api.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.APITimeout)

	cat := &catalog.Service{
		Source: public,
		Cache:  redisx.NewCache(rdb),
		TTL:    cfg.CatalogCacheTTL,
		Logger: log,
	}
	go cat.Warm(ctx)

	// Carts + checkout
	carts := cart.NewStore(cfg.CartIdleTTL)
	carts.StartSweeper(ctx, 5*time.Minute)
	flow := &checkout.Flow{
		Upstream: public,
		Carts:    carts,
		Events: &events.Emitter{
			Completed: pCompleted,
			Orphaned:  pOrphaned,
			Service:   cfg.ServiceName,
			Logger:    log,
		},
		Logger: log,
	}

	// Orphan ledger for the admin surface; the gateway stays up without it.
	var orphans httpx.OrphanStore
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Warn("postgres connect failed, orphan routes disabled", "error", err)
		} else {
			defer db.Close()
			orphans = &recon.Ledger{DB: db}
		}
	}

	// HTTP
	router := httpx.NewRouter()
	sh := &httpx.StorefrontHandler{Carts: carts, Catalog: cat, Flow: flow, Logger: log}
	sh.Register(router)
	ah := &httpx.AdminHandler{API: admin, Catalog: cat, Orphans: orphans, Logger: log}
	ah.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	pCompleted.Close()
	pOrphaned.Close()
	cancel()
	pCompleted.WaitClosed()
	pOrphaned.WaitClosed()
}
