package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-hr-payroll/internal/shared/apperror"
	"go-hr-payroll/internal/shared/contextutil"
	"go-hr-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func IdempotencyKey(path, companyID, actorID, key string) string {
	return fmt.Sprintf("idemp:%s:%s:%s:%s", path, companyID, actorID, key)
}

// Idempotency replays the stored response of a POST carrying an
// Idempotency-Key. A concurrent duplicate gets a conflict while the first
// request is running. Server errors are not stored so the client may retry.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logger := contextutil.GetLogger(ctx, zap.L()).Named("middleware.idempotency")
		cacheKey := IdempotencyKey(c.FullPath(), c.GetString("company_id"), c.GetString("actor_id"), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replayed", "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			logger.Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.FromError(c, apperror.ErrRequestInProgress)
			c.Abort()
			return
		}
		defer rdb.Del(ctx, lockKey)

		rec := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec

		c.Next()

		status := rec.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		payload, err := json.Marshal(cachedResponse{Status: status, Body: rec.body.Bytes()})
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, cacheKey, payload, idempotencyResultTTL).Err(); err != nil {
			logger.Warn("idempotency store failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
}
