package payrollerrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrPayrollAlreadyLocked = apperror.New(
		apperror.CodeConflict,
		"payroll for this employee and period is already locked",
		http.StatusConflict,
	)
	ErrSupersedeMismatch = apperror.New(
		apperror.CodeConflict,
		"supersedes_id does not match the latest locked payroll",
		http.StatusConflict,
	)
	ErrSaveInProgress = apperror.New(
		apperror.CodeConflict,
		"another save for this employee and period is in progress",
		http.StatusConflict,
	)
	ErrSnapshotLocked = apperror.New(
		apperror.CodeConflict,
		"locked payroll snapshots cannot be unlocked",
		http.StatusConflict,
	)
	ErrSnapshotAlreadyLocked = apperror.New(
		apperror.CodeConflict,
		"payroll snapshot is already locked",
		http.StatusConflict,
	)
	ErrPayslipRequiresLock = apperror.New(
		apperror.CodeInvalidState,
		"payslips are only issued for locked payrolls",
		http.StatusConflict,
	)
)
