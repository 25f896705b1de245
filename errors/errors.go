package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type of the binding engine.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code, which lets
// errors.Is match any error against the package sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Sentinels for errors.Is. They carry only a code.
var (
	ErrInvalidConfiguration = &AppError{Code: ErrCodeInvalidConfiguration}
	ErrEmptyBinding         = &AppError{Code: ErrCodeEmptyBinding}
	ErrTypeMismatch         = &AppError{Code: ErrCodeTypeMismatch}
	ErrDisposed             = &AppError{Code: ErrCodeDisposed}
	ErrNotRegistered        = &AppError{Code: ErrCodeNotRegistered}
	ErrAmbiguousConstructor = &AppError{Code: ErrCodeAmbiguousConstructor}
)

// --- Common Error Constructors ---

// InvalidArgument creates an AppError for a nil or invalid argument.
func InvalidArgument(name, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfiguration,
		Message: fmt.Sprintf("invalid argument %s: %s", name, reason),
		Details: map[string]any{"argument": name},
	}
}

// NilArgument creates an AppError for a required argument that was nil.
func NilArgument(name string) *AppError {
	return InvalidArgument(name, "must not be nil")
}

// Disposed creates an AppError for use of an already closed object.
func Disposed(object string) *AppError {
	return &AppError{
		Code:    ErrCodeDisposed,
		Message: fmt.Sprintf("%s is disposed", object),
		Details: map[string]any{"object": object},
	}
}

// NotRegistered creates an AppError for a key without any binding.
func NotRegistered(key fmt.Stringer) *AppError {
	return &AppError{
		Code:    ErrCodeNotRegistered,
		Message: fmt.Sprintf("type %s is not registered", typeName(key)),
		Details: map[string]any{"type": typeName(key)},
	}
}

// AmbiguousConstructor creates an AppError for a type with several
// constructors marked for injection.
func AmbiguousConstructor(typ fmt.Stringer, marked int) *AppError {
	return &AppError{
		Code:    ErrCodeAmbiguousConstructor,
		Message: fmt.Sprintf("type %s has %d constructors marked for injection", typeName(typ), marked),
		Details: map[string]any{"type": typeName(typ), "marked": marked},
	}
}

// NoConstructor creates an AppError for a type that has no constructor to
// activate.
func NoConstructor(typ fmt.Stringer) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfiguration,
		Message: fmt.Sprintf("type %s has no constructors", typeName(typ)),
		Details: map[string]any{"type": typeName(typ)},
	}
}

// EmptyBinding creates an AppError for a binding that has no providers.
func EmptyBinding(key fmt.Stringer) *AppError {
	return &AppError{
		Code:    ErrCodeEmptyBinding,
		Message: fmt.Sprintf("binding for %s has no instance providers", typeName(key)),
		Details: map[string]any{"type": typeName(key)},
	}
}

// TypeMismatch creates an AppError for a value that cannot serve a key.
func TypeMismatch(key fmt.Stringer, got string) *AppError {
	return &AppError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("%s is not assignable to %s", got, typeName(key)),
		Details: map[string]any{"type": typeName(key), "got": got},
	}
}

// Validation creates an AppError for rejected configuration values.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfiguration, Message: message}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func typeName(s fmt.Stringer) string {
	if s == nil {
		return "<nil>"
	}
	return s.String()
}
