package app

import (
	"context"
	"os/signal"
	"syscall"

	"go-hr-payroll/internal/employeesalary"
	"go-hr-payroll/internal/events"
	"go-hr-payroll/internal/messaging/kafka"
	"go-hr-payroll/internal/messaging/kafka/consumer"
	"go-hr-payroll/internal/payroll"
	"go-hr-payroll/internal/shared/config"
	"go-hr-payroll/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	salaryDefaultsGroup    = "hr-payroll-salary-defaults"
	previewInvalidateGroup = "hr-payroll-preview-invalidation"
)

// RunConsumer runs the Kafka consumers until SIGINT or SIGTERM.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	salaryService := employeesalary.NewService(
		sqlDB,
		employeesalary.NewRepository(gormDB),
		kafka.NewOutboxRepository(sqlDB),
		logger,
	)
	previewCache := payroll.NewPreviewCache(rdb, cfg.Payroll.PreviewTTL, logger)

	lifecycleReader := connection.NewKafkaReader(cfg.KafkaBroker, salaryDefaultsGroup, events.EmployeeLifecycleTopic)
	defer lifecycleReader.Close()
	invalidationReader := connection.NewKafkaReader(cfg.KafkaBroker, previewInvalidateGroup, consumer.PreviewInvalidationTopics...)
	defer invalidationReader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consumer.Run(ctx, "employee_lifecycle", lifecycleReader, consumer.EmployeeLifecycle(salaryService, logger), logger)
		return nil
	})
	g.Go(func() error {
		consumer.Run(ctx, "preview_invalidation", invalidationReader, consumer.PreviewInvalidation(previewCache, logger), logger)
		return nil
	})

	err = g.Wait()
	logger.Info("consumer shutting down")
	return err
}
