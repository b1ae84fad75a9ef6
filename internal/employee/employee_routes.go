package employee

import (
	"go-hr-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	{
		employees.GET("", handler.GetAll)
		employees.GET("/options",
			middleware.RateLimitByTenant(5, 20),
			handler.GetOptions,
		)
		employees.GET("/:id", handler.GetById)
		employees.POST("",
			middleware.RateLimitByTenant(1, 5),
			handler.Create,
		)
		employees.PUT("/:id", handler.Update)
		employees.DELETE("/:id",
			middleware.RateLimitByTenant(0.5, 2),
			handler.Delete,
		)
	}
}
