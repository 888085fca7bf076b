package services

// Error types, mapped to HTTP status codes at the handler boundary.
const (
	ErrTypeValidation   = "validation"
	ErrTypeAuth         = "auth"
	ErrTypeForbidden    = "forbidden"
	ErrTypeNotFound     = "not_found"
	ErrTypeDatabase     = "database"
	ErrTypeStorage      = "storage"
	ErrTypeExternalHost = "external_host"
)

// ServiceError a typed, code-carrying service failure.
type ServiceError struct {
	Type    string
	Code    string
	Message string
	// NeedsAuth signals that the root cause is an expired or missing
	// host token, so the frontend can prompt re-authorization.
	NeedsAuth bool
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewValidationError a bad input shape or enum value.
func NewValidationError(code, message string) *ServiceError {
	return &ServiceError{Type: ErrTypeValidation, Code: code, Message: message}
}

// NewNotFoundError a missing resource.
func NewNotFoundError(code, message string) *ServiceError {
	return &ServiceError{Type: ErrTypeNotFound, Code: code, Message: message}
}

// NewDatabaseError a storage-layer failure.
func NewDatabaseError(message string, err error) *ServiceError {
	return &ServiceError{Type: ErrTypeDatabase, Code: "database_error", Message: message, Err: err}
}

// NewExternalHostError a failure talking to the video host.
func NewExternalHostError(code, message string, needsAuth bool, err error) *ServiceError {
	return &ServiceError{Type: ErrTypeExternalHost, Code: code, Message: message, NeedsAuth: needsAuth, Err: err}
}
