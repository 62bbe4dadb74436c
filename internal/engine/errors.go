// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	ErrBrowserNotFound = errors.New("chrome browser not found")
	ErrTimeout         = errors.New("request timeout")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrNetworkError    = errors.New("network error")
	ErrBadStatus       = errors.New("unexpected HTTP status")
	ErrRenderFailed    = errors.New("render failed")
	ErrParseError      = errors.New("failed to parse response")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeInvalidURL   ErrorCode = "INVALID_URL"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeHTTPStatus   ErrorCode = "HTTP_STATUS"
	ErrCodeRender       ErrorCode = "RENDER_ERROR"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
)

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retry      bool
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Retry:      false,
		Details:    make(map[string]interface{}),
	}
}

// WithRetry marks the error as retryable
func (e *EngineError) WithRetry() *EngineError {
	e.Retry = true
	return e
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	e.Details[key] = value
	return e
}

// StatusError reports a response outside the 2xx/3xx range
func StatusError(url string, status int) *EngineError {
	return NewEngineError(ErrCodeHTTPStatus, fmt.Sprintf("GET %s returned %d", url, status), ErrBadStatus).
		WithRetry().
		WithDetail("status", status)
}

// IsRetryable reports whether err is marked as worth another attempt
func IsRetryable(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Retry
	}
	return false
}

// StatusCode returns the HTTP status recorded anywhere in err's chain, or 0
func StatusCode(err error) int {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.GetStatusCode()
	}
	return 0
}

// GetStatusCode returns the HTTP status recorded on the error, or 0
func (e *EngineError) GetStatusCode() int {
	if status, ok := e.Details["status"].(int); ok {
		return status
	}
	return 0
}
