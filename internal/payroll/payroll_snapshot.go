package payroll

import (
	"time"

	"go-hr-payroll/internal/attendance"
	payrollerrors "go-hr-payroll/internal/payroll/errors"
	"go-hr-payroll/internal/shared/workday"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type State string

const (
	StatePreview State = "PREVIEW"
	StateLocked  State = "LOCKED"
)

// Flag marks a data-quality anomaly. Flags never fail a computation.
type Flag string

const (
	FlagNonPositiveBasic     Flag = "NON_POSITIVE_BASIC"
	FlagNegativeNetPay       Flag = "NEGATIVE_NET_PAY"
	FlagUnmarkedDays         Flag = "UNMARKED_DAYS"
	FlagOpenShifts           Flag = "OPEN_SHIFTS"
	FlagMissingSalaryProfile Flag = "MISSING_SALARY_PROFILE"
)

// LineItem is one named allowance or deduction.
type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Snapshot is the payroll result for one employee and month. A PREVIEW is
// recomputed whenever inputs change; a LOCKED snapshot is authoritative.
type Snapshot struct {
	ID              uuid.UUID                   `json:"id"`
	EmployeeID      uuid.UUID                   `json:"employee_id"`
	Year            int                         `json:"year"`
	Month           int                         `json:"month"`
	BasicSalary     decimal.Decimal             `json:"basic_salary"`
	ProratedBasic   decimal.Decimal             `json:"prorated_basic"`
	Allowances      []LineItem                  `json:"allowances"`
	Deductions      []LineItem                  `json:"deductions"`
	TotalAllowances decimal.Decimal             `json:"total_allowances"`
	TotalDeductions decimal.Decimal             `json:"total_deductions"`
	NetPay          decimal.Decimal             `json:"net_pay"`
	Breakdown       attendance.MonthlyBreakdown `json:"breakdown"`
	Flags           []Flag                      `json:"flags"`
	State           State                       `json:"state"`
	Version         int                         `json:"version"`
	SupersedesID    *uuid.UUID                  `json:"supersedes_id,omitempty"`
	LockedBy        *uuid.UUID                  `json:"locked_by,omitempty"`
	LockedAt        *time.Time                  `json:"locked_at,omitempty"`
}

func (s *Snapshot) Locked() bool {
	return s != nil && s.State == StateLocked
}

func (s *Snapshot) Period() string {
	return workday.FormatPeriod(s.Year, s.Month)
}

func (s *Snapshot) HasFlag(f Flag) bool {
	for _, got := range s.Flags {
		if got == f {
			return true
		}
	}
	return false
}

// Lock is the only PREVIEW to LOCKED transition. LOCKED is terminal.
func (s *Snapshot) Lock(actor uuid.UUID, at time.Time) error {
	if s.Locked() {
		return payrollerrors.ErrSnapshotAlreadyLocked
	}
	at = at.UTC()
	s.State = StateLocked
	s.LockedBy = &actor
	s.LockedAt = &at
	return nil
}

// Unlock always fails on a locked snapshot; a changed figure needs a new
// preview saved as a superseding version.
func (s *Snapshot) Unlock() error {
	if s.Locked() {
		return payrollerrors.ErrSnapshotLocked
	}
	return nil
}
