package types

// ErrorCode is a stable machine-readable identifier that downstream UIs can
// switch on without parsing the error text.
type ErrorCode string

const (
	CodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	CodeBadRequest         ErrorCode = "BAD_REQUEST"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodePayloadTooLarge    ErrorCode = "PAYLOAD_TOO_LARGE"
	CodeConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	CodeProviderError      ErrorCode = "PROVIDER_ERROR"
)

// Severity classifies how a pipeline error should be treated by callers.
type Severity string

const (
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// PipelineError is the terminal error type of the dispatch pipeline. It is
// created by the validator or a handler, propagated to the dispatcher
// unchanged, and never retried by the core itself.
type PipelineError struct {
	Code     ErrorCode
	Severity Severity
	Message  string
	Metadata map[string]any
}

func (e *PipelineError) Error() string {
	return e.Message
}

// NewValidationError builds a CRITICAL validation failure.
func NewValidationError(message string, metadata map[string]any) *PipelineError {
	return &PipelineError{
		Code:     CodeValidationFailed,
		Severity: SeverityCritical,
		Message:  message,
		Metadata: metadata,
	}
}

// NewConfigurationError marks a deployment/environment problem. These are
// fatal for the request and surfaced to callers as a generic internal error.
func NewConfigurationError(message string) *PipelineError {
	return &PipelineError{
		Code:     CodeConfigurationError,
		Severity: SeverityCritical,
		Message:  message,
	}
}

// NewNotFoundError marks a reference to something the catalog does not know.
func NewNotFoundError(message string, metadata map[string]any) *PipelineError {
	return &PipelineError{
		Code:     CodeNotFound,
		Severity: SeverityWarning,
		Message:  message,
		Metadata: metadata,
	}
}
