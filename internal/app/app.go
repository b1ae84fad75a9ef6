package app

import (
	"context"
	"database/sql"
	"fmt"

	"go-hr-payroll/internal/attendance"
	"go-hr-payroll/internal/employee"
	"go-hr-payroll/internal/employeesalary"
	"go-hr-payroll/internal/leavemaster"
	"go-hr-payroll/internal/messaging/kafka"
	"go-hr-payroll/internal/payroll"
	"go-hr-payroll/internal/shared/config"
	"go-hr-payroll/internal/shared/connection"
	"go-hr-payroll/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure, migrates the schema and mounts every
// module on router. The returned func closes the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err := migrate(context.Background(), gormDB, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	registerModules(router, cfg, sqlDB, gormDB, rdb)

	return func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}, nil
}

func migrate(ctx context.Context, gormDB *gorm.DB, sqlDB *sql.DB) error {
	err := gormDB.WithContext(ctx).AutoMigrate(
		&counter.CompanyCounter{},
		&employee.Employee{},
		&leavemaster.LeaveMaster{},
		&attendance.Attendance{},
		&employeesalary.EmployeeSalary{},
		&employeesalary.SalaryAllowance{},
		&payroll.Payroll{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, kafka.Schema); err != nil {
		return fmt.Errorf("create outbox schema: %w", err)
	}
	return nil
}
