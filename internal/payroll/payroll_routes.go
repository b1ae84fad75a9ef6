package payroll

import (
	"go-hr-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	payrolls := r.Group("/payrolls")
	{
		payrolls.GET("", handler.GetAll)
		payrolls.GET("/:id", handler.GetById)
		payrolls.GET("/:id/payslip", handler.GetPayslip)
		payrolls.POST("/preview",
			middleware.RateLimitByTenant(2, 10),
			handler.Preview,
		)

		save := []gin.HandlerFunc{middleware.RateLimitByTenant(0.5, 2)}
		if rdb != nil {
			save = append(save, middleware.Idempotency(rdb))
		}
		payrolls.POST("", append(save, handler.Save)...)
	}
}
