package middleware

import (
	"strings"

	"go-hr-payroll/internal/shared/apperror"
	"go-hr-payroll/internal/shared/contextutil"
	"go-hr-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderCompanyID = "X-Company-ID"
	HeaderActorID   = "X-Actor-ID"
)

// Tenant reads the company and actor forwarded by the gateway. The company is
// mandatory; the actor is checked by the services that need one.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := strings.TrimSpace(c.GetHeader(HeaderCompanyID))
		if _, err := uuid.Parse(companyID); err != nil {
			response.FromError(c, apperror.ErrMissingTenant)
			c.Abort()
			return
		}
		actorID := strings.TrimSpace(c.GetHeader(HeaderActorID))

		c.Set("company_id", companyID)
		c.Set("actor_id", actorID)

		ctx := contextutil.WithCompanyID(c.Request.Context(), companyID)
		ctx = contextutil.WithActorID(ctx, actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
