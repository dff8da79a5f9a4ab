package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/expense-tracker/internal/clients/cache"
	"max.ks1230/expense-tracker/internal/clients/kafka"
	"max.ks1230/expense-tracker/internal/clients/openai"
	"max.ks1230/expense-tracker/internal/config"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/chat"
	"max.ks1230/expense-tracker/internal/model/dashboard"
	"max.ks1230/expense-tracker/internal/model/storage"
	"max.ks1230/expense-tracker/internal/server"
	"max.ks1230/expense-tracker/internal/tracing"
)

const (
	serviceName     = "expense-tracker"
	shutdownTimeout = 10 * time.Second
)

func main() {
	_ = godotenv.Load()

	logger.Info("Server init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config", zap.Error(err))
	}

	closer, err := tracing.Init(serviceName)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer func() {
		_ = closer.Close()
	}()

	store, err := newStorage(conf)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	extractor := openai.New(conf.OpenAI())

	var publisher chat.EventPublisher
	if conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Fatal("failed to init kafka producer", zap.Error(err))
		}
		defer producer.Close()
		publisher = producer
	}

	var invalidator chat.SummaryInvalidator
	var summaryCache *cache.MemcacheClient
	if conf.Memcached().Enabled() {
		summaryCache, err = cache.NewMemcache(conf.Memcached())
		if err != nil {
			logger.Fatal("failed to init memcached", zap.Error(err))
		}
		invalidator = summaryCache
	}

	chatService := chat.NewService(extractor, store, publisher, invalidator)
	dashboardService := newDashboard(store, summaryCache)

	srv := server.New(conf.Server(), chatService, dashboardService)

	logger.Info("Server init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newStorage(conf *config.Service) (storage.ExpenseStorage, error) {
	switch conf.App().StorageBackend() {
	case config.BackendPostgres:
		return storage.NewPostgresStorage(conf.Postgres())
	case config.BackendMemory:
		logger.Warn("using in-memory storage, expenses will not survive a restart")
		return storage.NewInMemStorage(), nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", conf.App().StorageBackend())
	}
}

func newDashboard(store storage.ExpenseStorage, summaryCache *cache.MemcacheClient) *dashboard.Service {
	if summaryCache == nil {
		return dashboard.NewService(store, nil)
	}
	return dashboard.NewService(store, summaryCache)
}
