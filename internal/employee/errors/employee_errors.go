package employeeerrors

import (
	"net/http"

	"go-hr-payroll/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound            = apperror.New(apperror.CodeNotFound, "Employee not found", http.StatusNotFound)
	ErrEmployeeAlreadyExists       = apperror.New(apperror.CodeConflict, "Email is already used by another employee", http.StatusConflict)
	ErrEmployeeNumberAlreadyExists = apperror.New(apperror.CodeConflict, "Employee number already exists in this company", http.StatusConflict)
	ErrInvalidEmployeeID           = apperror.New(apperror.CodeInvalidInput, "Invalid employee ID", http.StatusBadRequest)
	ErrInvalidCompanyID            = apperror.New(apperror.CodeInvalidInput, "Invalid company ID", http.StatusBadRequest)

	// Duty window and hire date are checked after binding since they depend on each other.
	ErrInvalidDutyWindow = apperror.New(apperror.CodeInvalidInput, "Duty end must be after duty start", http.StatusBadRequest)
	ErrInvalidHireDate   = apperror.New(apperror.CodeInvalidInput, "Invalid hire date, expected YYYY-MM-DD", http.StatusBadRequest)
)
