package dto

import (
	"net/http"

	"github.com/retailpos/backend/internal/domain/shared"
)

// ErrCodeInternal is used for errors with no domain classification
const ErrCodeInternal = "INTERNAL_ERROR"

// ErrCodeBadRequest is used for malformed request bodies and parameters
const ErrCodeBadRequest = "BAD_REQUEST"

// statusByCode maps domain error codes to HTTP status codes.
// Conflict-class codes share 409: they all mean the request was
// well-formed but lost against the current state of the data.
var statusByCode = map[string]int{
	shared.CodeValidation:         http.StatusUnprocessableEntity,
	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeUnitUnavailable:    http.StatusConflict,
	shared.CodeSaleLocked:         http.StatusConflict,
	shared.CodeInvalidTransition:  http.StatusConflict,
	shared.CodeAlreadyExists:      http.StatusConflict,
	shared.CodeAmbiguousReference: http.StatusConflict,
	shared.CodeTransport:          http.StatusBadGateway,
	ErrCodeBadRequest:             http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
