package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"specimenpro/internal/config"
	"specimenpro/internal/kafka"
	"specimenpro/internal/logger"
	"specimenpro/internal/lookup"
	"specimenpro/internal/qr"
	"specimenpro/internal/sse"
	"specimenpro/internal/store"
)

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.DocumentStore, func(), error) {
	if cfg.Document.Store != "sqlite" {
		log.Info("STARTUP", fmt.Sprintf("Serving JSON document %s", cfg.Document.Path))
		return store.NewJSONStore(cfg.Document.Path, log), func() {}, nil
	}

	db, err := store.OpenSQLite(cfg.Document.SQLiteDSN)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.NewSQLiteStore(ctx, db, log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Info("STARTUP", fmt.Sprintf("Serving SQLite revisions from %s", cfg.Document.SQLiteDSN))
	return s, func() { db.Close() }, nil
}

// relayNotifications feeds catalog notifications from Kafka to stream clients.
func relayNotifications(ctx context.Context, cfg *config.Config, broker *sse.Broker, log *logger.Logger) {
	if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Could not ensure topic %s: %v", cfg.Kafka.Topic, err))
	}
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, "lookup-service", log)
	defer consumer.Close()

	if err := consumer.Start(ctx, broker.Emit); err != nil {
		log.Error("KAFKA", fmt.Sprintf("Catalog consumer stopped: %v", err))
	}
}

func main() {
	_ = godotenv.Load() // Loads .env file if present

	cfg := config.Load()
	log, err := logger.New(logger.Options{
		Dir:      cfg.Log.Dir,
		Name:     "lookup-service",
		MinLevel: logger.ParseLevel(cfg.Log.Level),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal("CONFIG", err.Error())
	}

	ctx := context.Background()
	source, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open document store: %v", err))
	}
	defer closeStore()

	level, err := qr.ParseLevel(cfg.QR.ErrorCorrection)
	if err != nil {
		log.Fatal("CONFIG", err.Error())
	}
	enc := qr.NewEncoder(cfg.QR.BaseURL)
	enc.Level = level

	var cache lookup.PNGCache
	if cfg.Redis.Addr != "" {
		rc, err := lookup.NewRedisCache(cfg.Redis.Addr, cfg.Redis.TTL, log)
		if err != nil {
			log.Warn("REDIS", fmt.Sprintf("QR cache disabled: %v", err))
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	handler := lookup.NewHandler(source, enc, cache, cfg.QR.PNGSize, log)

	consumeCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	if cfg.Kafka.Enabled && !cfg.Kafka.MockMode {
		handler.Stream = sse.NewBroker()
		go relayNotifications(consumeCtx, cfg, handler.Stream, log)
	}

	addr := cfg.Server.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("STARTUP", fmt.Sprintf("Lookup service on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("STARTUP", fmt.Sprintf("HTTP error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("SHUTDOWN", fmt.Sprintf("Graceful shutdown failed: %v", err))
	}
	log.Info("SHUTDOWN", "Lookup service shutdown complete")
}
