package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidPayload     = "INVALID_PAYLOAD"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeNoUpdatesProvided  = "NO_UPDATES_PROVIDED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeDuplicateRequest   = "DUPLICATE_REQUEST"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a domain error of the same kind, so detailed
// errors still match the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewInvalidPayload creates an InvalidPayload error carrying a detailed message.
func NewInvalidPayload(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidPayload, message)
}

// Common domain errors
var (
	ErrInvalidPayload     = NewDomainError(ErrCodeInvalidPayload, "Invalid order payload.")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found.")
	ErrInsufficientStock  = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock for one of the items.")
	ErrNoUpdatesProvided  = NewDomainError(ErrCodeNoUpdatesProvided, "No updates provided.")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Invalid credentials.")
	ErrUnauthorized       = NewDomainError(ErrCodeUnauthorised, "Unauthorized.")
	ErrDuplicateRequest   = NewDomainError(ErrCodeDuplicateRequest, "A request with this idempotency key is already in progress.")
)
