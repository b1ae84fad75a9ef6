package main

import (
	"go-hr-payroll/internal/app"
	"go-hr-payroll/internal/shared/apperror"
	"go-hr-payroll/internal/shared/config"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.Load()
	apperror.Init()

	if err := app.RunConsumer(cfg); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
