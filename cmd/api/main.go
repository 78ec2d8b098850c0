package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/acikkaynak/needs-board-go/app"
	"github.com/acikkaynak/needs-board-go/board"
	"github.com/acikkaynak/needs-board-go/broker"
	"github.com/acikkaynak/needs-board-go/cache"
	"github.com/acikkaynak/needs-board-go/config"
	"github.com/acikkaynak/needs-board-go/metrics"
	log "github.com/acikkaynak/needs-board-go/pkg/logger"
	"github.com/acikkaynak/needs-board-go/providers"
	"github.com/acikkaynak/needs-board-go/session"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()

	if err := log.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("failed to init logger: %s", err.Error()))
	}
	logger := log.Logger()
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var storage fiber.Storage
	if cfg.Session.Store == config.StoreRedis {
		redisStorage := cache.NewRedisStorage(cfg.Redis.Addr, cfg.Redis.Password)
		if err := redisStorage.Ping(); err != nil {
			logger.Panic("failed to connect to redis", zap.Error(err))
		}
		defer redisStorage.Close()
		storage = redisStorage
	}

	var publisher broker.Publisher = broker.NopPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := broker.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			logger.Error("failed to init kafka producer, events are disabled", zap.Error(err))
		} else {
			kafkaPublisher := broker.NewKafkaPublisher(producer, cfg.Kafka.Topic)
			defer kafkaPublisher.Close()
			publisher = kafkaPublisher
		}
	}

	b := board.New(board.Options{
		Roster:    providers.DefaultRoster(),
		Admin:     board.Credentials{User: cfg.Admin.User, Password: cfg.Admin.Password},
		Logger:    logger,
		Metrics:   metrics.NewMetrics(reg),
		Publisher: publisher,
	})

	application := app.New(app.Options{
		Board: b,
		Sessions: session.NewManager(session.Config{
			Storage: storage,
			TTL:     cfg.Session.TTL,
			Secure:  cfg.Session.Secure,
		}),
		Gatherer:      reg,
		Logger:        logger,
		SessionSecret: cfg.Session.Secret,
		APIKey:        cfg.APIKey,
	})

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT)
	signal.Notify(c, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("application gracefully shutting down..")
		_ = application.Shutdown()
	}()

	logger.Info("needs board listening", zap.Int("port", cfg.Port), zap.String("session_store", cfg.Session.Store))
	if err := application.Listen(cfg.Port); err != nil {
		logger.Panic("app error", zap.Error(err))
	}
}
