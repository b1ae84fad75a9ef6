package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-hr-payroll/internal/shared/connection"
	"go-hr-payroll/internal/shared/workday"
	"go-hr-payroll/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByID(ctx context.Context, companyID, id string) (*Attendance, error)
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error)
	FindByEmployeeInRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Attendance, error)
	Update(ctx context.Context, a *Attendance) error
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
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*Attendance, error) {
	var a Attendance
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format(workday.DateLayout)).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByEmployeeInRange returns rows with from <= date <= to, oldest first.
func (r *repository) FindByEmployeeInRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", from.Format(workday.DateLayout), to.Format(workday.DateLayout)).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) FindEmployee(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error) {
	var e EmployeeRef
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
