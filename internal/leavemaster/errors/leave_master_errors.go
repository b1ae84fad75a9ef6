package leavemastererrors

import (
	"net/http"

	"go-hr-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave category",
		http.StatusBadRequest,
	)
	ErrInvalidPaymentStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payment status, expected paid or unpaid",
		http.StatusBadRequest,
	)
	ErrInvalidFixedDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid fixed_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrFixedDateNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"fixed_date is only allowed for mandatory holidays",
		http.StatusBadRequest,
	)
	ErrNegativeAllowance = apperror.New(
		apperror.CodeInvalidInput,
		"annual_allowance cannot be negative",
		http.StatusBadRequest,
	)
	ErrLeaveMasterNameExists = apperror.New(
		apperror.CodeConflict,
		"leave master name already exists",
		http.StatusConflict,
	)
	ErrLeaveMasterNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave master not found",
		http.StatusNotFound,
	)
)
