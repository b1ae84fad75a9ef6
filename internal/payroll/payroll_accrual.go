package payroll

import (
	"go-hr-payroll/internal/attendance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Policy holds the accrual choices the business owns.
type Policy struct {
	// ProrateBasic scales basic salary by effective paid days over working days.
	// When false the flat basic is paid.
	ProrateBasic bool
}

// Employee is the accrual view of an employee: who, and what the effective
// salary profile says.
type Employee struct {
	ID          uuid.UUID
	BasicSalary decimal.Decimal
	// SalaryMissing is set when no profile was in force for the period.
	SalaryMissing bool
}

type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Accrue computes a PREVIEW snapshot. A locked existing snapshot is returned
// as is, without looking at the other inputs.
func (e *Engine) Accrue(
	emp Employee,
	breakdown attendance.MonthlyBreakdown,
	allowances, deductions []LineItem,
	existing *Snapshot,
) *Snapshot {
	if existing.Locked() {
		return existing
	}

	allowances = normalizeItems(allowances)
	deductions = normalizeItems(deductions)

	prorated := emp.BasicSalary
	if e.policy.ProrateBasic && breakdown.TotalWorkingDays > 0 {
		prorated = emp.BasicSalary.
			Mul(decimal.NewFromFloat(breakdown.EffectivePaidDays)).
			Div(decimal.NewFromInt(int64(breakdown.TotalWorkingDays)))
	}
	prorated = prorated.Round(2)

	totalAllowances := sumItems(allowances)
	totalDeductions := sumItems(deductions)
	net := prorated.Add(totalAllowances).Sub(totalDeductions)

	snap := &Snapshot{
		EmployeeID:      emp.ID,
		Year:            breakdown.Year,
		Month:           breakdown.Month,
		BasicSalary:     emp.BasicSalary.Round(2),
		ProratedBasic:   prorated,
		Allowances:      allowances,
		Deductions:      deductions,
		TotalAllowances: totalAllowances,
		TotalDeductions: totalDeductions,
		NetPay:          net,
		Breakdown:       breakdown,
		State:           StatePreview,
		Version:         1,
	}
	snap.Flags = qualityFlags(emp, breakdown, net)
	return snap
}

func qualityFlags(emp Employee, b attendance.MonthlyBreakdown, net decimal.Decimal) []Flag {
	flags := []Flag{}
	if emp.SalaryMissing {
		flags = append(flags, FlagMissingSalaryProfile)
	}
	if !emp.BasicSalary.IsPositive() {
		flags = append(flags, FlagNonPositiveBasic)
	}
	if net.IsNegative() {
		flags = append(flags, FlagNegativeNetPay)
	}
	if b.NotMarkedDays > 0 {
		flags = append(flags, FlagUnmarkedDays)
	}
	if b.OpenShiftDays > 0 {
		flags = append(flags, FlagOpenShifts)
	}
	return flags
}

// normalizeItems copies items with absolute amounts; some sources send
// deductions as negative numbers.
func normalizeItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{Name: it.Name, Amount: it.Amount.Abs().Round(2)})
	}
	return out
}

func sumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
