package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"innkeep/internal/notifier"
	"innkeep/internal/reservations/service"
	"innkeep/pkg/kafka"
	kafkaconfig "innkeep/pkg/kafka/config"
	"innkeep/pkg/logger"
)

const (
	ServiceName   = "notifier"
	ConsumerGroup = "notifier"
)

func main() {
	log := logger.New(logger.Config{
		Level:     logger.INFO,
		Format:    logger.JSON,
		AddSource: true,
		Service:   ServiceName,
	})

	log.Info("Starting Notifier service")

	n := notifier.New(&notifier.LogSender{Log: log}, log)

	consumer, err := kafka.NewConsumer(
		kafkaconfig.Load(),
		service.TopicBookingEvents,
		ConsumerGroup,
		service.TopicBookingEventsDLQ,
		n.Handle,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create consumer", "error", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	log.Info("Consumer started, waiting for booking events", "topic", service.TopicBookingEvents)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("Consumer stopped with error", "error", err)
	}

	log.Info("Notifier stopped")
}
