package employee

import (
	"context"
	"database/sql"

	"go-hr-payroll/internal/shared/connection"
	"go-hr-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("employee_number ASC").
		Find(&empls).Error
	return empls, err
}

// FindOptionsByCompany lists active employees with only the columns a picker needs.
func (r *repository) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Select("id", "company_id", "employee_number", "full_name", "email", "is_active").
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Save(empl).Error
}

// Delete deactivates and soft deletes the employee.
func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	db := r.conn(ctx).Model(&Employee{}).Scopes(tenant.Scope(companyID)).Where("id = ?", id)
	if err := db.Update("is_active", false).Error; err != nil {
		return err
	}
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
