package payroll

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	payrollerrors "go-hr-payroll/internal/payroll/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	previewKeyPrefix    = "payroll:preview:"
	generationKeyPrefix = "payroll:preview:gen:"
	saveLockKeyPrefix   = "payroll:lock:"
)

// CompanyGenerationKey versions every preview of a company. It moves when
// company-wide inputs such as leave masters change.
func CompanyGenerationKey(companyID string) string {
	return generationKeyPrefix + companyID
}

// EmployeeGenerationKey versions the previews of one employee. It moves on
// attendance, salary profile and payroll saves.
func EmployeeGenerationKey(companyID, employeeID string) string {
	return generationKeyPrefix + companyID + ":" + employeeID
}

func PreviewKey(companyID, employeeID, period string, companyGen, employeeGen int64, inputsHash string) string {
	return fmt.Sprintf("%s%s:%s:%s:g%d.%d:%s", previewKeyPrefix, companyID, employeeID, period, companyGen, employeeGen, inputsHash)
}

func SaveLockKey(companyID, employeeID, period string) string {
	return saveLockKeyPrefix + companyID + ":" + employeeID + ":" + period
}

// InputsHash fingerprints the request-supplied components and the policies a
// preview was computed under.
func InputsHash(allowances, deductions []LineItem, policy Policy, openShiftAsPresent bool) string {
	payload, _ := json.Marshal(struct {
		Allowances         []LineItem `json:"a"`
		Deductions         []LineItem `json:"d"`
		ProrateBasic       bool       `json:"p"`
		OpenShiftAsPresent bool       `json:"o"`
	}{allowances, deductions, policy.ProrateBasic, openShiftAsPresent})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}

// PreviewCache memoizes previews in Redis. Entries are never deleted; bumping a
// generation makes every key built from the old one unreachable until its TTL ends.
type PreviewCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewPreviewCache(rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) *PreviewCache {
	l := zap.L().Named("payroll.cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.cache")
	}
	return &PreviewCache{rdb: rdb, ttl: ttl, logger: l}
}

func (c *PreviewCache) Generation(ctx context.Context, companyID, employeeID string) (int64, int64, error) {
	if c == nil || c.rdb == nil {
		return 0, 0, nil
	}
	vals, err := c.rdb.MGet(ctx, CompanyGenerationKey(companyID), EmployeeGenerationKey(companyID, employeeID)).Result()
	if err != nil {
		return 0, 0, err
	}
	return parseGeneration(vals[0]), parseGeneration(vals[1]), nil
}

func parseGeneration(v any) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func (c *PreviewCache) Get(ctx context.Context, key string) (*Snapshot, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	cached, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("read payroll preview cache failed", zap.Error(err))
		}
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(cached), &snap); err != nil {
		c.logger.Warn("decode payroll preview cache failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &snap, true
}

func (c *PreviewCache) Set(ctx context.Context, key string, snap *Snapshot) {
	if c == nil || c.rdb == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warn("encode payroll preview failed", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("write payroll preview cache failed", zap.Error(err))
	}
}

func (c *PreviewCache) BumpEmployee(ctx context.Context, companyID, employeeID string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Incr(ctx, EmployeeGenerationKey(companyID, employeeID)).Err()
}

func (c *PreviewCache) BumpCompany(ctx context.Context, companyID string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Incr(ctx, CompanyGenerationKey(companyID)).Err()
}

// AcquireSaveLock serializes saves of one employee and month. The returned
// release func must be called once the save finished.
func (c *PreviewCache) AcquireSaveLock(ctx context.Context, companyID, employeeID, period string, ttl time.Duration) (func(), error) {
	if c == nil || c.rdb == nil {
		return func() {}, nil
	}
	key := SaveLockKey(companyID, employeeID, period)
	ok, err := c.rdb.SetNX(ctx, key, "locked", ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, payrollerrors.ErrSaveInProgress
	}
	return func() {
		if err := c.rdb.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			c.logger.Warn("release payroll save lock failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
