package employeesalary

import (
	"context"
	"database/sql"
	"time"

	"go-hr-payroll/internal/shared/connection"
	"go-hr-payroll/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, salary *EmployeeSalary) error
	FindAllByCompany(ctx context.Context, companyID string) ([]EmployeeSalary, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*EmployeeSalary, error)
	// FindEffective returns the latest profile of the employee whose effective
	// date is not after asOf.
	FindEffective(ctx context.Context, companyID, employeeID string, asOf time.Time) (*EmployeeSalary, error)
	CountByEmployee(ctx context.Context, companyID, employeeID string) (int64, error)
	EmployeeExists(ctx context.Context, companyID, employeeID string) (bool, error)
	Delete(ctx context.Context, companyID string, id string) error
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

func (r *repository) withEmployee(ctx context.Context, companyID string) *gorm.DB {
	return r.conn(ctx).
		Model(&EmployeeSalary{}).
		Select("employee_salaries.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = employee_salaries.employee_id AND employees.deleted_at IS NULL").
		Scopes(tenant.ScopeTable("employee_salaries", companyID)).
		Preload("Allowances", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
}

// Create inserts the profile and its allowances in one statement batch.
func (r *repository) Create(ctx context.Context, salary *EmployeeSalary) error {
	return r.conn(ctx).Create(salary).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]EmployeeSalary, error) {
	var salaries []EmployeeSalary
	err := r.withEmployee(ctx, companyID).
		Order("employees.full_name ASC").
		Order("employee_salaries.effective_date DESC").
		Order("employee_salaries.created_at DESC").
		Find(&salaries).Error
	return salaries, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*EmployeeSalary, error) {
	var salary EmployeeSalary
	err := r.withEmployee(ctx, companyID).
		Where("employee_salaries.id = ?", id).
		First(&salary).Error
	if err != nil {
		return nil, err
	}
	return &salary, nil
}

func (r *repository) FindEffective(ctx context.Context, companyID, employeeID string, asOf time.Time) (*EmployeeSalary, error) {
	var salary EmployeeSalary
	err := r.withEmployee(ctx, companyID).
		Where("employee_salaries.employee_id = ?", employeeID).
		Where("employee_salaries.effective_date <= ?", asOf).
		Order("employee_salaries.effective_date DESC").
		Order("employee_salaries.created_at DESC").
		First(&salary).Error
	if err != nil {
		return nil, err
	}
	return &salary, nil
}

func (r *repository) CountByEmployee(ctx context.Context, companyID, employeeID string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&EmployeeSalary{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count, err
}

func (r *repository) EmployeeExists(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND deleted_at IS NULL", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&EmployeeSalary{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
