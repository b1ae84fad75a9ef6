package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrMissingTenant = New(
		CodeInvalidInput,
		"company context is required",
		http.StatusBadRequest,
	)

	ErrTooManyRequests = New(
		CodeRateLimited,
		"Too many requests",
		http.StatusTooManyRequests,
	)

	ErrRequestInProgress = New(
		CodeProcessing,
		"A request with this idempotency key is still being processed",
		http.StatusConflict,
	)
)

func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, field+" is required", http.StatusBadRequest)
}

func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, field+" is invalid", http.StatusBadRequest)
}
