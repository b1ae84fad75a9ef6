package payroll

import (
	"encoding/json"
	"time"

	"go-hr-payroll/internal/attendance"
	payrollerrors "go-hr-payroll/internal/payroll/errors"

	"github.com/shopspring/decimal"
)

// EmployeeDisplay carries the roster fields printed on a payslip.
type EmployeeDisplay struct {
	FullName       string
	EmployeeNumber string
	DutyStart      string
	DutyEnd        string
}

// Payslip is a read-only projection of a locked snapshot. Renderers get
// copies from its getters and cannot change any figure.
type Payslip struct {
	payrollID       string
	employeeID      string
	employee        EmployeeDisplay
	period          string
	version         int
	basicSalary     decimal.Decimal
	proratedBasic   decimal.Decimal
	allowances      []LineItem
	deductions      []LineItem
	totalAllowances decimal.Decimal
	totalDeductions decimal.Decimal
	netPay          decimal.Decimal
	breakdown       attendance.MonthlyBreakdown
	lockedAt        time.Time
}

func NewPayslip(snap *Snapshot, emp EmployeeDisplay) (*Payslip, error) {
	if !snap.Locked() {
		return nil, payrollerrors.ErrPayslipRequiresLock
	}

	breakdown := snap.Breakdown
	breakdown.Days = nil

	p := &Payslip{
		payrollID:       snap.ID.String(),
		employeeID:      snap.EmployeeID.String(),
		employee:        emp,
		period:          snap.Period(),
		version:         snap.Version,
		basicSalary:     snap.BasicSalary,
		proratedBasic:   snap.ProratedBasic,
		allowances:      append([]LineItem(nil), snap.Allowances...),
		deductions:      append([]LineItem(nil), snap.Deductions...),
		totalAllowances: snap.TotalAllowances,
		totalDeductions: snap.TotalDeductions,
		netPay:          snap.NetPay,
		breakdown:       breakdown,
	}
	if snap.LockedAt != nil {
		p.lockedAt = *snap.LockedAt
	}
	return p, nil
}

func (p *Payslip) PayrollID() string                      { return p.payrollID }
func (p *Payslip) EmployeeID() string                     { return p.employeeID }
func (p *Payslip) Employee() EmployeeDisplay              { return p.employee }
func (p *Payslip) Period() string                         { return p.period }
func (p *Payslip) Version() int                           { return p.version }
func (p *Payslip) BasicSalary() decimal.Decimal           { return p.basicSalary }
func (p *Payslip) ProratedBasic() decimal.Decimal         { return p.proratedBasic }
func (p *Payslip) TotalAllowances() decimal.Decimal       { return p.totalAllowances }
func (p *Payslip) TotalDeductions() decimal.Decimal       { return p.totalDeductions }
func (p *Payslip) NetPay() decimal.Decimal                { return p.netPay }
func (p *Payslip) LockedAt() time.Time                    { return p.lockedAt }
func (p *Payslip) Breakdown() attendance.MonthlyBreakdown { return p.breakdown }

func (p *Payslip) Allowances() []LineItem {
	return append([]LineItem(nil), p.allowances...)
}

func (p *Payslip) Deductions() []LineItem {
	return append([]LineItem(nil), p.deductions...)
}

// DutyHours is the printable duty window, empty when the roster has none.
func (p *Payslip) DutyHours() string {
	if p.employee.DutyStart == "" || p.employee.DutyEnd == "" {
		return ""
	}
	return p.employee.DutyStart + "-" + p.employee.DutyEnd
}

type payslipView struct {
	PayrollID       string                      `json:"payroll_id"`
	EmployeeID      string                      `json:"employee_id"`
	EmployeeName    string                      `json:"employee_name"`
	EmployeeNumber  string                      `json:"employee_number"`
	DutyHours       string                      `json:"duty_hours,omitempty"`
	Period          string                      `json:"period"`
	Version         int                         `json:"version"`
	BasicSalary     string                      `json:"basic_salary"`
	ProratedBasic   string                      `json:"prorated_basic"`
	Allowances      []LineItemResponse          `json:"allowances"`
	Deductions      []LineItemResponse          `json:"deductions"`
	TotalAllowances string                      `json:"total_allowances"`
	TotalDeductions string                      `json:"total_deductions"`
	NetPay          string                      `json:"net_pay"`
	Attendance      attendance.MonthlyBreakdown `json:"attendance"`
	LockedAt        string                      `json:"locked_at"`
}

func (p *Payslip) MarshalJSON() ([]byte, error) {
	return json.Marshal(payslipView{
		PayrollID:       p.payrollID,
		EmployeeID:      p.employeeID,
		EmployeeName:    p.employee.FullName,
		EmployeeNumber:  p.employee.EmployeeNumber,
		DutyHours:       p.DutyHours(),
		Period:          p.period,
		Version:         p.version,
		BasicSalary:     p.basicSalary.StringFixed(2),
		ProratedBasic:   p.proratedBasic.StringFixed(2),
		Allowances:      mapItems(p.allowances),
		Deductions:      mapItems(p.deductions),
		TotalAllowances: p.totalAllowances.StringFixed(2),
		TotalDeductions: p.totalDeductions.StringFixed(2),
		NetPay:          p.netPay.StringFixed(2),
		Attendance:      p.breakdown,
		LockedAt:        p.lockedAt.UTC().Format(time.RFC3339),
	})
}
