package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/promptgallery/gallery-server/internal/errors"
	"github.com/promptgallery/gallery-server/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// errorLogger receives unexpected errors before they are hidden behind a 500.
var errorLogger = slog.Default()

// RegisterErrorHandler configures huma to use domain errors.
// Call this before registering routes.
func RegisterErrorHandler(logger *slog.Logger) {
	if logger != nil {
		errorLogger = logger
	}
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			code := domainerrors.CodeNotFound
			if storeErr.HTTPCode() == http.StatusConflict {
				code = domainerrors.CodeAlreadyExists
			}
			return &APIError{status: storeErr.HTTPCode(), Code: string(code), Message: storeErr.Message}
		}
	}

	// Request validation failures from huma itself: report as 400 with
	// one entry per offending location.
	if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
		details := make(map[string]string)
		for _, err := range errs {
			var detail *huma.ErrorDetail
			if errors.As(err, &detail) {
				details[detail.Location] = detail.Message
			}
		}
		apiErr := &APIError{
			status:  http.StatusBadRequest,
			Code:    string(domainerrors.CodeValidation),
			Message: message,
		}
		if len(details) > 0 {
			apiErr.Details = details
		}
		return apiErr
	}

	if status >= http.StatusInternalServerError {
		errorLogger.Error("request failed", "status", status, "message", message, "error", errors.Join(errs...))
		return &APIError{
			status:  status,
			Code:    string(domainerrors.CodeInternal),
			Message: "internal server error",
		}
	}

	return &APIError{
		status:  status,
		Code:    statusToCode(status),
		Message: message,
	}
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return fmt.Sprintf("HTTP_%d", status)
	}
}
