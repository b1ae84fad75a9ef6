package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the roster entry. Salary lives in employeesalary.
type Employee struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:uq_employee_number;uniqueIndex:uq_employee_email"`
	EmployeeNumber string         `gorm:"type:varchar(30);not null;uniqueIndex:uq_employee_number"`
	FullName       string         `gorm:"type:varchar(150);not null"`
	Email          string         `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_email"`
	DutyStart      string         `gorm:"type:varchar(5);not null"`
	DutyEnd        string         `gorm:"type:varchar(5);not null"`
	HireDate       *time.Time     `gorm:"type:date"`
	IsActive       bool           `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
