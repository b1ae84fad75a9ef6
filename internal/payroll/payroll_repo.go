package payroll

import (
	"context"
	"database/sql"

	"go-hr-payroll/internal/shared/connection"
	"go-hr-payroll/internal/tenant"

	"gorm.io/gorm"
)

type ListFilter struct {
	Year       int
	Month      int
	EmployeeID string
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payroll *Payroll) error
	FindAll(ctx context.Context, companyID string, filter ListFilter) ([]Payroll, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error)
	// FindLatest returns the highest version locked for the employee and month.
	FindLatest(ctx context.Context, companyID, employeeID string, year, month int) (*Payroll, error)
	FindEmployee(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.conn(ctx).Create(payroll).Error
}

func (r *repository) FindAll(ctx context.Context, companyID string, filter ListFilter) ([]Payroll, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if filter.Year > 0 && filter.Month > 0 {
		db = db.Where("period_year = ? AND period_month = ?", filter.Year, filter.Month)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}

	var payrolls []Payroll
	err := db.
		Order("period_year DESC").
		Order("period_month DESC").
		Order("employee_id ASC").
		Order("version DESC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&payroll, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *repository) FindLatest(ctx context.Context, companyID, employeeID string, year, month int) (*Payroll, error) {
	var payroll Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND period_year = ? AND period_month = ?", employeeID, year, month).
		Order("version DESC").
		First(&payroll).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *repository) FindEmployee(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error) {
	var emp EmployeeRef
	err := r.conn(ctx).
		Unscoped().
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}
