package types

import "fmt"

// Error type discriminators rendered in responses.
const (
	ErrorTypeNotFound   = "not_found"
	ErrorTypeValidation = "validation"
	ErrorTypeConflict   = "conflict"
	ErrorTypePermission = "permission"
)

// CustomError is the structured failure carried from services to the transport
// layer. Fields enumerates offending input fields for validation failures.
type CustomError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Type    string            `json:"type"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewNotFoundError reports an absent resource. Resources owned by another user
// are reported with the same error so ownership is never leaked.
func NewNotFoundError(resource string) *CustomError {
	return &CustomError{
		Code:    404,
		Message: fmt.Sprintf("%s not found", resource),
		Type:    ErrorTypeNotFound,
	}
}

// NewValidationError reports invalid input for one or more fields.
func NewValidationError(fields map[string]string) *CustomError {
	return &CustomError{
		Code:    400,
		Message: "Invalid input",
		Type:    ErrorTypeValidation,
		Fields:  fields,
	}
}

// NewFieldValidationError reports invalid input for a single field.
func NewFieldValidationError(field, message string) *CustomError {
	return NewValidationError(map[string]string{field: message})
}

// NewConflictError reports a uniqueness conflict.
func NewConflictError(message string) *CustomError {
	return &CustomError{
		Code:    409,
		Message: message,
		Type:    ErrorTypeConflict,
	}
}

// NewPermissionError reports missing authentication or an insufficient role.
func NewPermissionError(message string) *CustomError {
	return &CustomError{
		Code:    403,
		Message: message,
		Type:    ErrorTypePermission,
	}
}
