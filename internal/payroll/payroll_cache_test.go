package payroll_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-hr-payroll/internal/payroll"
	payrollerrors "go-hr-payroll/internal/payroll/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewKeys(t *testing.T) {
	assert.Equal(t, "payroll:preview:gen:c1", payroll.CompanyGenerationKey("c1"))
	assert.Equal(t, "payroll:preview:gen:c1:e1", payroll.EmployeeGenerationKey("c1", "e1"))
	assert.Equal(t, "payroll:preview:c1:e1:2025-03:g2.5:abc", payroll.PreviewKey("c1", "e1", "2025-03", 2, 5, "abc"))
	assert.Equal(t, "payroll:lock:c1:e1:2025-03", payroll.SaveLockKey("c1", "e1", "2025-03"))
}

func TestInputsHash(t *testing.T) {
	items := []payroll.LineItem{{Name: "Meal", Amount: decimal.NewFromInt(100)}}
	policy := payroll.Policy{ProrateBasic: true}

	base := payroll.InputsHash(items, nil, policy, true)
	assert.Equal(t, base, payroll.InputsHash(items, nil, policy, true))
	assert.NotEqual(t, base, payroll.InputsHash(items, nil, policy, false))
	assert.NotEqual(t, base, payroll.InputsHash(nil, items, policy, true))
	assert.NotEqual(t, base, payroll.InputsHash(items, nil, payroll.Policy{}, true))
}

func TestPreviewCache(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	employeeID := uuid.NewString()

	t.Run("missing generations read as zero", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cache := payroll.NewPreviewCache(rdb, time.Minute)
		mock.ExpectMGet(payroll.CompanyGenerationKey(companyID), payroll.EmployeeGenerationKey(companyID, employeeID)).
			SetVal([]interface{}{nil, "4"})

		cgen, egen, err := cache.Generation(ctx, companyID, employeeID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), cgen)
		assert.Equal(t, int64(4), egen)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bumps move the counters", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cache := payroll.NewPreviewCache(rdb, time.Minute)
		mock.ExpectIncr(payroll.EmployeeGenerationKey(companyID, employeeID)).SetVal(5)
		mock.ExpectIncr(payroll.CompanyGenerationKey(companyID)).SetVal(1)

		require.NoError(t, cache.BumpEmployee(ctx, companyID, employeeID))
		require.NoError(t, cache.BumpCompany(ctx, companyID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("round trips a snapshot", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cache := payroll.NewPreviewCache(rdb, time.Minute)
		snap := &payroll.Snapshot{
			EmployeeID: uuid.New(),
			Year:       2025,
			Month:      3,
			NetPay:     decimal.RequireFromString("31500"),
			State:      payroll.StatePreview,
			Version:    1,
			Flags:      []payroll.Flag{},
		}
		payload, err := json.Marshal(snap)
		require.NoError(t, err)

		mock.ExpectSet("k", payload, time.Minute).SetVal("OK")
		mock.ExpectGet("k").SetVal(string(payload))
		mock.ExpectGet("missing").RedisNil()

		cache.Set(ctx, "k", snap)
		got, ok := cache.Get(ctx, "k")
		require.True(t, ok)
		assert.True(t, got.NetPay.Equal(snap.NetPay))
		assert.Equal(t, payroll.StatePreview, got.State)

		_, ok = cache.Get(ctx, "missing")
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save lock admits one holder", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cache := payroll.NewPreviewCache(rdb, time.Minute)
		key := payroll.SaveLockKey(companyID, employeeID, "2025-03")

		mock.ExpectSetNX(key, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSetNX(key, "locked", 30*time.Second).SetVal(false)
		mock.ExpectDel(key).SetVal(1)

		release, err := cache.AcquireSaveLock(ctx, companyID, employeeID, "2025-03", 30*time.Second)
		require.NoError(t, err)

		_, err = cache.AcquireSaveLock(ctx, companyID, employeeID, "2025-03", 30*time.Second)
		assert.ErrorIs(t, err, payrollerrors.ErrSaveInProgress)

		release()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil client disables caching", func(t *testing.T) {
		cache := payroll.NewPreviewCache(nil, time.Minute)

		cgen, egen, err := cache.Generation(ctx, companyID, employeeID)
		require.NoError(t, err)
		assert.Zero(t, cgen+egen)
		_, ok := cache.Get(ctx, "k")
		assert.False(t, ok)
		release, err := cache.AcquireSaveLock(ctx, companyID, employeeID, "2025-03", time.Second)
		require.NoError(t, err)
		release()
	})
}
