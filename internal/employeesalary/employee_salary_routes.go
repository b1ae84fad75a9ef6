package employeesalary

import (
	"go-hr-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	salaries := r.Group("/employee-salaries")
	{
		salaries.GET("", handler.GetAll)
		salaries.GET("/:id", handler.GetById)
		salaries.POST("",
			middleware.RateLimitByTenant(0.5, 2),
			handler.Create,
		)
		salaries.PUT("/:id",
			middleware.RateLimitByTenant(0.5, 2),
			handler.Update,
		)
		salaries.DELETE("/:id",
			middleware.RateLimitByTenant(0.2, 1),
			handler.Delete,
		)
	}
}
