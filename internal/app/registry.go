package app

import (
	"database/sql"
	"net/http"

	"go-hr-payroll/internal/attendance"
	"go-hr-payroll/internal/employee"
	"go-hr-payroll/internal/employeesalary"
	"go-hr-payroll/internal/leavemaster"
	"go-hr-payroll/internal/messaging/kafka"
	"go-hr-payroll/internal/middleware"
	"go-hr-payroll/internal/payroll"
	"go-hr-payroll/internal/shared/config"
	"go-hr-payroll/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) {
	logger := zap.L()

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	employeeSalaryRepo := employeesalary.NewRepository(gormDB)
	leaveMasterRepo := leavemaster.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- Services ---
	leaveMasterService := leavemaster.NewService(db, leaveMasterRepo, outboxRepo, rdb, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, leaveMasterService, outboxRepo, attendance.Config{
		Location: cfg.Location,
		Policy:   attendance.Policy{CountOpenShiftAsPresent: cfg.Payroll.OpenShiftAsPresent},
	}, logger)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	employeeSalaryService := employeesalary.NewService(db, employeeSalaryRepo, outboxRepo, logger)
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		attendanceService,
		employeeSalaryService,
		payroll.NewPreviewCache(rdb, cfg.Payroll.PreviewTTL, logger),
		outboxRepo,
		payroll.Config{
			Policy:             payroll.Policy{ProrateBasic: cfg.Payroll.ProrateBasic},
			OpenShiftAsPresent: cfg.Payroll.OpenShiftAsPresent,
			SaveLockTTL:        cfg.Payroll.SaveLockTTL,
		},
		logger,
	)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	employeeSalaryHandler := employeesalary.NewHandler(employeeSalaryService, logger)
	leaveMasterHandler := leavemaster.NewHandler(leaveMasterService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)

	// --- Routes Registration ---
	router.GET("/healthz", middleware.RateLimitByIP(1, 5), func(c *gin.Context) { c.Status(http.StatusOK) })

	api := router.Group("/api/v1")
	api.Use(
		middleware.RequestID(),
		middleware.Tenant(),
		middleware.ContextLogger(logger.Named("http")),
		middleware.RateLimitByTenant(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	)
	{
		attendance.RegisterRoutes(api, attendanceHandler)
		employee.RegisterRoutes(api, employeeHandler)
		employeesalary.RegisterRoutes(api, employeeSalaryHandler)
		leavemaster.RegisterRoutes(api, leaveMasterHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	}
}
