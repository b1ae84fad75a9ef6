package payroll

import (
	"time"

	"go-hr-payroll/internal/attendance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const uniqueVersionConstraint = "uq_payroll_version"

// Payroll is a locked snapshot as stored. Rows are insert-only; a correction
// is a new row with the next version pointing at the one it supersedes.
type Payroll struct {
	ID              uuid.UUID                                       `gorm:"type:uuid;primaryKey"`
	CompanyID       uuid.UUID                                       `gorm:"type:uuid;not null;index;uniqueIndex:uq_payroll_version"`
	EmployeeID      uuid.UUID                                       `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_version"`
	PeriodYear      int                                             `gorm:"not null;uniqueIndex:uq_payroll_version"`
	PeriodMonth     int                                             `gorm:"not null;uniqueIndex:uq_payroll_version"`
	Version         int                                             `gorm:"not null;uniqueIndex:uq_payroll_version"`
	SupersedesID    *uuid.UUID                                      `gorm:"type:uuid"`
	BasicSalary     decimal.Decimal                                 `gorm:"type:numeric(14,2);not null"`
	ProratedBasic   decimal.Decimal                                 `gorm:"type:numeric(14,2);not null"`
	TotalAllowances decimal.Decimal                                 `gorm:"type:numeric(14,2);not null"`
	TotalDeductions decimal.Decimal                                 `gorm:"type:numeric(14,2);not null"`
	NetPay          decimal.Decimal                                 `gorm:"type:numeric(14,2);not null"`
	Allowances      datatypes.JSONType[[]LineItem]                  `gorm:"type:jsonb;not null"`
	Deductions      datatypes.JSONType[[]LineItem]                  `gorm:"type:jsonb;not null"`
	Breakdown       datatypes.JSONType[attendance.MonthlyBreakdown] `gorm:"type:jsonb;not null"`
	Flags           datatypes.JSONType[[]Flag]                      `gorm:"type:jsonb;not null"`
	State           State                                           `gorm:"type:varchar(10);not null"`
	LockedBy        uuid.UUID                                       `gorm:"type:uuid;not null"`
	LockedAt        time.Time                                       `gorm:"not null"`
	CreatedAt       time.Time
}

func (Payroll) TableName() string {
	return "payrolls"
}

// EmployeeRef is the roster row payroll reads. Soft-deleted employees stay
// visible so their payslips remain printable.
type EmployeeRef struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID      `gorm:"type:uuid"`
	EmployeeNumber string
	FullName       string
	DutyStart      string
	DutyEnd        string
	IsActive       bool
	DeletedAt      gorm.DeletedAt
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func (e EmployeeRef) Display() EmployeeDisplay {
	return EmployeeDisplay{
		FullName:       e.FullName,
		EmployeeNumber: e.EmployeeNumber,
		DutyStart:      e.DutyStart,
		DutyEnd:        e.DutyEnd,
	}
}

func toEntity(companyID uuid.UUID, s *Snapshot) *Payroll {
	p := &Payroll{
		ID:              s.ID,
		CompanyID:       companyID,
		EmployeeID:      s.EmployeeID,
		PeriodYear:      s.Year,
		PeriodMonth:     s.Month,
		Version:         s.Version,
		SupersedesID:    s.SupersedesID,
		BasicSalary:     s.BasicSalary,
		ProratedBasic:   s.ProratedBasic,
		TotalAllowances: s.TotalAllowances,
		TotalDeductions: s.TotalDeductions,
		NetPay:          s.NetPay,
		Allowances:      datatypes.NewJSONType(s.Allowances),
		Deductions:      datatypes.NewJSONType(s.Deductions),
		Breakdown:       datatypes.NewJSONType(s.Breakdown),
		Flags:           datatypes.NewJSONType(s.Flags),
		State:           s.State,
	}
	if s.LockedBy != nil {
		p.LockedBy = *s.LockedBy
	}
	if s.LockedAt != nil {
		p.LockedAt = *s.LockedAt
	}
	return p
}

func toSnapshot(p Payroll) *Snapshot {
	lockedBy := p.LockedBy
	lockedAt := p.LockedAt
	return &Snapshot{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		Year:            p.PeriodYear,
		Month:           p.PeriodMonth,
		BasicSalary:     p.BasicSalary,
		ProratedBasic:   p.ProratedBasic,
		Allowances:      p.Allowances.Data(),
		Deductions:      p.Deductions.Data(),
		TotalAllowances: p.TotalAllowances,
		TotalDeductions: p.TotalDeductions,
		NetPay:          p.NetPay,
		Breakdown:       p.Breakdown.Data(),
		Flags:           p.Flags.Data(),
		State:           p.State,
		Version:         p.Version,
		SupersedesID:    p.SupersedesID,
		LockedBy:        &lockedBy,
		LockedAt:        &lockedAt,
	}
}
