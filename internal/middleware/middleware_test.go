package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hr-payroll/internal/middleware"
	"go-hr-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTenant(t *testing.T) {
	companyID := uuid.NewString()
	actorID := uuid.NewString()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Tenant())
	r.GET("/who", func(c *gin.Context) {
		meta := contextutil.ExtractMetadata(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"company_id": c.GetString("company_id"),
			"actor_id":   meta.ActorID,
			"request_id": meta.RequestID,
		})
	})

	t.Run("headers are propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set(middleware.HeaderCompanyID, companyID)
		req.Header.Set(middleware.HeaderActorID, actorID)
		req.Header.Set(middleware.HeaderRequestID, "req-42")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, companyID, body["company_id"])
		assert.Equal(t, actorID, body["actor_id"])
		assert.Equal(t, "req-42", body["request_id"])
		assert.Equal(t, "req-42", w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("missing company is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set(middleware.HeaderCompanyID, "not-a-uuid")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "company context is required")
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	})
}

func TestRateLimitByTenant(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Tenant(), middleware.RateLimitByTenant(0.001, 1))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call := func(companyID, actorID string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.HeaderCompanyID, companyID)
		req.Header.Set(middleware.HeaderActorID, actorID)
		r.ServeHTTP(w, req)
		return w.Code
	}

	companyID := uuid.NewString()
	alice := uuid.NewString()
	assert.Equal(t, http.StatusNoContent, call(companyID, alice))
	assert.Equal(t, http.StatusTooManyRequests, call(companyID, alice))
	assert.Equal(t, http.StatusNoContent, call(companyID, uuid.NewString()))
	assert.Equal(t, http.StatusNoContent, call(uuid.NewString(), alice))
}

func TestIdempotency(t *testing.T) {
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	key := middleware.IdempotencyKey("/payrolls", companyID, actorID, "k-1")

	newRouter := func(t *testing.T, handlerCalls *int) (*gin.Engine, redismock.ClientMock) {
		rdb, mock := redismock.NewClientMock()
		r := gin.New()
		r.Use(middleware.Tenant(), middleware.Idempotency(rdb))
		r.POST("/payrolls", func(c *gin.Context) {
			*handlerCalls++
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})
		return r, mock
	}

	post := func(r *gin.Engine) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payrolls", nil)
		req.Header.Set(middleware.HeaderCompanyID, companyID)
		req.Header.Set(middleware.HeaderActorID, actorID)
		req.Header.Set(middleware.HeaderIdempotencyKey, "k-1")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("first call stores the response", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(t, &calls)

		stored, err := json.Marshal(struct {
			Status int             `json:"status"`
			Body   json.RawMessage `json:"body"`
		}{http.StatusCreated, json.RawMessage(`{"ok":true}`)})
		require.NoError(t, err)

		mock.ExpectGet(key).RedisNil()
		mock.ExpectSetNX(key+":lock", "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(key, stored, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(key + ":lock").SetVal(1)

		w := post(r)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay skips the handler", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(t, &calls)
		mock.ExpectGet(key).SetVal(`{"status":201,"body":{"ok":true}}`)

		w := post(r)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.Equal(t, 0, calls)
	})

	t.Run("concurrent duplicate is a conflict", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(t, &calls)
		mock.ExpectGet(key).RedisNil()
		mock.ExpectSetNX(key+":lock", "locked", 30*time.Second).SetVal(false)

		w := post(r)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.Equal(t, 0, calls)
	})
}
