package attendance

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	attendances := r.Group("/attendances")
	{
		attendances.POST("/punch-in", handler.PunchIn)
		attendances.POST("/punch-out", handler.PunchOut)
		attendances.POST("/import", handler.Import)
		attendances.GET("/calendar", handler.GetCalendar)
		attendances.GET("/summary", handler.GetSummary)
		attendances.PATCH("/:id/status", handler.UpdateStatus)
		attendances.POST("/:id/verify", handler.Verify)
	}
}
