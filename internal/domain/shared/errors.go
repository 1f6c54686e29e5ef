package shared

import "errors"

// Error codes shared across the engine. Handlers map these to HTTP
// statuses; domain and application code only ever deals in codes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnitUnavailable    = "UNIT_UNAVAILABLE"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeSaleLocked         = "SALE_LOCKED"
	CodeAmbiguousReference = "AMBIGUOUS_REFERENCE"
	CodeTransport          = "TRANSPORT_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR domain error
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists      = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrUnitUnavailable    = NewDomainError(CodeUnitUnavailable, "Stock unit is not available for this operation")
	ErrInvalidTransition  = NewDomainError(CodeInvalidTransition, "Status transition is not allowed")
	ErrSaleLocked         = NewDomainError(CodeSaleLocked, "Sale is paid and can no longer be modified")
	ErrAmbiguousReference = NewDomainError(CodeAmbiguousReference, "Reference matches more than one record")
)

// ErrorCode extracts the domain error code from err, or empty string
// when err is not a DomainError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err is a DomainError carrying the given code
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// TransportError wraps a driver or network failure on a read or write.
// Reads may be retried by the caller; writes must not be retried
// automatically.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err as a TransportError for operation op
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}
