package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/acikkaynak/needs-board-go/broker"
	"github.com/acikkaynak/needs-board-go/config"
	"github.com/acikkaynak/needs-board-go/consumer"
	"github.com/acikkaynak/needs-board-go/metrics"
	log "github.com/acikkaynak/needs-board-go/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

	http.HandleFunc("/healthcheck", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), nil); err != nil {
			logger.Error("server could not started or stopped", zap.Error(err))
		}
	}()

	client, err := broker.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup)
	if err != nil {
		logger.Panic("failed to init kafka consumer group", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := consumer.NewConsumer(client, cfg.Kafka.Topic, metrics.NewMetrics(reg), logger)
	c.Start(ctx)

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	healthy := true
	for healthy {
		select {
		case <-ctx.Done():
			logger.Info("terminating: context cancelled")
			healthy = false
		case <-sigterm:
			logger.Info("terminating: via signal")
			healthy = false
		}
	}

	cancel()
	if err = client.Close(); err != nil {
		logger.Panic("error closing client", zap.Error(err))
	}
}
