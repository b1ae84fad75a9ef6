package payroll

import (
	"go-hr-payroll/internal/attendance"

	"github.com/shopspring/decimal"
)

type LineItemInput struct {
	Name   string          `json:"name" binding:"required,max=100"`
	Amount decimal.Decimal `json:"amount"`
}

// PreviewRequest asks for the payroll of one employee and month. Allowances
// are added to the salary profile's fixed allowances.
type PreviewRequest struct {
	EmployeeID string          `json:"employee_id" binding:"required,uuid"`
	Period     string          `json:"period" binding:"required,period"`
	Allowances []LineItemInput `json:"allowances" binding:"omitempty,max=50,dive"`
	Deductions []LineItemInput `json:"deductions" binding:"omitempty,max=50,dive"`
	// Recompute ignores a locked payroll of the period and returns a fresh preview.
	Recompute bool `json:"recompute"`
}

// SaveRequest locks a freshly computed snapshot. A period that already has a
// locked payroll is only saved again with Supersede and the id being replaced.
type SaveRequest struct {
	PreviewRequest
	Supersede    bool   `json:"supersede"`
	SupersedesID string `json:"supersedes_id" binding:"omitempty,uuid"`
}

type ListQuery struct {
	Period     string `form:"period" binding:"omitempty,period"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}

type LineItemResponse struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type PayrollResponse struct {
	ID              string                      `json:"id,omitempty"`
	EmployeeID      string                      `json:"employee_id"`
	Period          string                      `json:"period"`
	State           string                      `json:"state"`
	Version         int                         `json:"version"`
	SupersedesID    string                      `json:"supersedes_id,omitempty"`
	BasicSalary     string                      `json:"basic_salary"`
	ProratedBasic   string                      `json:"prorated_basic"`
	Allowances      []LineItemResponse          `json:"allowances"`
	Deductions      []LineItemResponse          `json:"deductions"`
	TotalAllowances string                      `json:"total_allowances"`
	TotalDeductions string                      `json:"total_deductions"`
	NetPay          string                      `json:"net_pay"`
	Breakdown       attendance.MonthlyBreakdown `json:"breakdown"`
	Flags           []string                    `json:"flags"`
	LockedBy        string                      `json:"locked_by,omitempty"`
	LockedAt        string                      `json:"locked_at,omitempty"`
	// Fresh is false when the preview came from cache or is the stored locked payroll.
	Fresh bool `json:"fresh"`
}
