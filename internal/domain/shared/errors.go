// Package shared holds domain types used by more than one domain package.
package shared

// DomainError is an error with a stable machine-readable code. The HTTP
// layer maps codes onto statuses without inspecting message text.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a DomainError.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// ErrNotFound is returned by the mirror repositories when a product,
// variant or sync log row does not exist.
var ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
