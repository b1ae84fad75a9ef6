package main

import (
	"time"

	"go-hr-payroll/internal/app"
	"go-hr-payroll/internal/bootstrap"
	"go-hr-payroll/internal/shared/apperror"
	"go-hr-payroll/internal/shared/config"

	"github.com/gin-gonic/gin"
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
	r := gin.New()
	r.Use(gin.Recovery())

	cleanup, err := app.BuildApp(r, cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	err = bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewZapAuditLogger(logger),
	)
	if err != nil {
		logger.Error("http server failed", zap.Error(err))
	}
}
