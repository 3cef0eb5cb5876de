package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"strings"
	"time"
)

// AppError implements the error interface and provides structured error handling
type AppError struct {
	Code       Code           `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"statusCode"`
	Context    map[string]any `json:"context,omitempty"`
	TraceID    string         `json:"traceId,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	cause      error          // unexported to maintain encapsulation
	stack      []uintptr      // stack trace
}

// Error implements the error interface
func (e *AppError) Error() string {
	if len(e.Context) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.formatContext())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// formatContext renders the context pairs in stable key order.
func (e *AppError) formatContext() string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", k, e.Context[k])
	}
	return sb.String()
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is implements errors.Is interface for error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithTraceID sets the trace ID for distributed tracing
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// ToLog serializes the error for logging with stack trace
func (e *AppError) ToLog() map[string]interface{} {
	log := map[string]interface{}{
		"code":       e.Code,
		"message":    e.Message,
		"statusCode": e.StatusCode,
		"timestamp":  e.Timestamp.Format(time.RFC3339),
	}

	if len(e.Context) > 0 {
		log["context"] = e.Context
	}

	if e.TraceID != "" {
		log["traceId"] = e.TraceID
	}

	if e.cause != nil {
		log["cause"] = e.cause.Error()
	}

	if len(e.stack) > 0 {
		log["stack"] = e.formatStack()
	}

	return log
}

// formatStack formats the stack trace
func (e *AppError) formatStack() string {
	var sb strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			sb.WriteString(fmt.Sprintf("\n\t%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// captureStack captures the current stack trace
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[:n]
}

// New creates a new AppError with the given code and options
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:       code,
		Message:    messages[code],
		StatusCode: getDefaultStatusCode(code),
		Timestamp:  time.Now(),
		stack:      captureStack(),
	}

	// Apply options
	for _, opt := range opts {
		opt(err)
	}

	// If message wasn't set by options and isn't in messages map, use code as message
	if err.Message == "" {
		err.Message = string(code)
	}

	return err
}

// Option is a functional option for AppError
type Option func(*AppError)

// WithMessage sets a custom message
func WithMessage(message string) Option {
	return func(e *AppError) {
		e.Message = message
	}
}

// WithContext attaches a key/value pair describing where the error arose.
func WithContext(key string, value any) Option {
	return func(e *AppError) {
		if e.Context == nil {
			e.Context = make(map[string]any, 2)
		}
		e.Context[key] = value
	}
}

// WithStatusCode sets a custom HTTP status code
func WithStatusCode(statusCode int) Option {
	return func(e *AppError) {
		e.StatusCode = statusCode
	}
}

// WithCause wraps an underlying error
func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

// External creates an external service error
func External(code Code, provider string, cause error) *AppError {
	return New(code, WithContext("provider", provider), WithCause(cause), WithStatusCode(http.StatusServiceUnavailable))
}

// Internal creates an internal error
func Internal(code Code, component string, cause error) *AppError {
	return New(code, WithContext("component", component), WithCause(cause), WithStatusCode(http.StatusInternalServerError))
}

// Validation creates a validation error
func Validation(code Code, detail string) *AppError {
	return New(code, WithContext("detail", detail), WithStatusCode(http.StatusBadRequest))
}

// Wrap wraps a standard error into AppError
func Wrap(err error, code Code, component string) *AppError {
	if err == nil {
		return nil
	}

	// If it's already an AppError, return it
	var appErr *AppError
	if errors.As(err, &appErr) {
		if component != "" {
			if appErr.Context == nil {
				appErr.Context = make(map[string]any, 1)
			}
			if _, ok := appErr.Context["component"]; !ok {
				appErr.Context["component"] = component
			}
		}
		return appErr
	}

	// Create new AppError wrapping the original
	return Internal(code, component, err)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

// getDefaultStatusCode determines the HTTP status code based on the error code
func getDefaultStatusCode(code Code) int {
	switch {
	case strings.Contains(string(code), "NOT_FOUND"):
		return http.StatusNotFound

	case strings.Contains(string(code), "INVALID"),
		strings.Contains(string(code), "REQUIRED"):
		return http.StatusBadRequest

	case strings.Contains(string(code), "TIMEOUT"):
		return http.StatusGatewayTimeout

	case code == CodeRateLimitExceeded, code == CodeExchangeRateLimited:
		return http.StatusTooManyRequests

	case strings.Contains(string(code), "CONNECTION"),
		code == CodeServiceUnavailable,
		code == CodeCircuitOpen:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
