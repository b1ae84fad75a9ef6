package app

import (
	"context"
	"os/signal"
	"syscall"

	"go-hr-payroll/internal/messaging/kafka"
	"go-hr-payroll/internal/messaging/kafka/producer"
	"go-hr-payroll/internal/shared/config"
	"go-hr-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays the outbox to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, producer.WorkerConfig{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
	})

	logger.Info("worker shutting down")
	return nil
}
