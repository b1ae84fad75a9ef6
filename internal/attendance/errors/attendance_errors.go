package attendanceerrors

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
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance period",
		http.StatusBadRequest,
	)
	ErrDuplicateRecord = apperror.New(
		apperror.CodeInvalidInput,
		"duplicate attendance records for one date",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance status",
		http.StatusBadRequest,
	)
	ErrInvalidRow = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance row",
		http.StatusBadRequest,
	)
	ErrLeaveMasterNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"leave master not found or inactive",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found or inactive",
		http.StatusNotFound,
	)
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance not found",
		http.StatusNotFound,
	)
	ErrAlreadyPunchedIn = apperror.New(
		apperror.CodeConflict,
		"already punched in for today",
		http.StatusConflict,
	)
	ErrPunchInNotFound = apperror.New(
		apperror.CodeInvalidState,
		"punch in not found for today",
		http.StatusBadRequest,
	)
	ErrAlreadyPunchedOut = apperror.New(
		apperror.CodeConflict,
		"already punched out for today",
		http.StatusConflict,
	)
	ErrAlreadyVerified = apperror.New(
		apperror.CodeConflict,
		"attendance is already verified",
		http.StatusConflict,
	)
	ErrVerificationNoteRequired = apperror.New(
		apperror.CodeInvalidInput,
		"verification note is required",
		http.StatusBadRequest,
	)
)
