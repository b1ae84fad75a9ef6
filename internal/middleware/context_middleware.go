package middleware

import (
	"time"

	"go-hr-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a request scoped logger carrying the request, company
// and actor ids, and logs one line per request. It runs after RequestID and Tenant.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		meta := contextutil.ExtractMetadata(ctx)

		reqLogger := logger.With(
			zap.String("request_id", meta.RequestID),
			zap.String("company_id", meta.CompanyID),
			zap.String("actor_id", meta.ActorID),
		)
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))

		c.Next()

		reqLogger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
