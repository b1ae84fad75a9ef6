package employeesalary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeSalary is one effective-dated salary profile. A change never edits a
// row; it inserts a new profile with a later effective date.
type EmployeeSalary struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_employee_salary_effective"`
	BaseSalary    decimal.Decimal   `gorm:"type:numeric(14,2);not null"`
	EffectiveDate time.Time         `gorm:"type:date;not null;uniqueIndex:uq_employee_salary_effective"`
	Allowances    []SalaryAllowance `gorm:"foreignKey:SalaryID;constraint:OnDelete:CASCADE"`
	EmployeeName  string            `gorm:"->;-:migration"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (EmployeeSalary) TableName() string {
	return "employee_salaries"
}

// SalaryAllowance is a fixed monthly allowance attached to a profile.
type SalaryAllowance struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SalaryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name     string          `gorm:"type:varchar(100);not null"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (SalaryAllowance) TableName() string {
	return "employee_salary_allowances"
}

func (s EmployeeSalary) TotalAllowances() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Allowances {
		total = total.Add(a.Amount)
	}
	return total
}
