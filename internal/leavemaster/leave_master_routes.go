package leavemaster

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	masters := r.Group("/leave-masters")
	{
		masters.GET("", handler.GetAll)
		masters.GET("/:id", handler.GetByID)
		masters.POST("", handler.Create)
		masters.PUT("/:id", handler.Update)
		masters.DELETE("/:id", handler.Delete)
	}
}
