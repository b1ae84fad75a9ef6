package employeesalary

import "github.com/shopspring/decimal"

type AllowanceInput struct {
	Name   string          `json:"name" binding:"required,max=100"`
	Amount decimal.Decimal `json:"amount"`
}

type CreateEmployeeSalaryRequest struct {
	EmployeeID    string           `json:"employee_id" binding:"required,uuid"`
	BaseSalary    decimal.Decimal  `json:"base_salary"`
	EffectiveDate string           `json:"effective_date" binding:"required,datetime=2006-01-02"`
	Allowances    []AllowanceInput `json:"allowances" binding:"omitempty,max=20,dive"`
}

// UpdateEmployeeSalaryRequest creates the next profile of the employee that owns
// the addressed one. Omitted allowances carry over.
type UpdateEmployeeSalaryRequest struct {
	BaseSalary    decimal.Decimal   `json:"base_salary"`
	EffectiveDate string            `json:"effective_date" binding:"required,datetime=2006-01-02"`
	Allowances    *[]AllowanceInput `json:"allowances" binding:"omitempty,max=20,dive"`
}

type AllowanceResponse struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type EmployeeSalaryResponse struct {
	ID              string              `json:"id"`
	EmployeeID      string              `json:"employee_id"`
	EmployeeName    string              `json:"employee_name,omitempty"`
	BaseSalary      string              `json:"base_salary"`
	Allowances      []AllowanceResponse `json:"allowances"`
	TotalAllowances string              `json:"total_allowances"`
	EffectiveDate   string              `json:"effective_date"`
}
