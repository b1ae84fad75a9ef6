package employeesalaryerrors

import (
	"net/http"

	"go-hr-payroll/internal/shared/apperror"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary profile not found",
		http.StatusNotFound,
	)
	ErrSalaryEffectiveDateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Salary for this employee and effective date already exists",
		http.StatusConflict,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid effective date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Salary amounts must not be negative",
		http.StatusBadRequest,
	)
	ErrDuplicateAllowance = apperror.New(
		apperror.CodeInvalidInput,
		"Allowance names must be unique within a profile",
		http.StatusBadRequest,
	)
)
