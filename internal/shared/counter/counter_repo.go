package counter

import (
	"context"
	"database/sql"
	"fmt"

	"go-hr-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

const TypeEmployeeNumber = "employee_number"

//go:generate mockgen -source=counter_repo.go -destination=mock/counter_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error)
}

type CompanyCounter struct {
	CompanyID   string `gorm:"type:uuid;primaryKey"`
	CounterType string `gorm:"type:varchar(50);primaryKey"`
	LastValue   int64  `gorm:"not null;default:0"`
	UpdatedAt   sql.NullTime
}

func (CompanyCounter) TableName() string { return "company_counters" }

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// GetNextValue atomically increments the per company counter and returns the new value.
func (r *repository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	var nextValue int64

	err := connection.Conn(ctx, r.db, r.tx).Raw(`
		INSERT INTO company_counters (company_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (company_id, counter_type) DO UPDATE
		SET last_value = company_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, companyID, counterType).Scan(&nextValue).Error
	if err != nil {
		return 0, fmt.Errorf("next %s for company %s: %w", counterType, companyID, err)
	}

	return nextValue, nil
}
