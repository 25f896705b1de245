package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors
const (
	// ErrCodeInvalidConfiguration indicates a missing or invalid argument to a
	// constructor, option or fluent binding call.
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	// ErrCodeEmptyBinding indicates a binding without any instance provider.
	ErrCodeEmptyBinding ErrorCode = "EMPTY_BINDING"
	// ErrCodeTypeMismatch indicates a value that is not assignable to its key.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Lifecycle errors
const (
	// ErrCodeDisposed indicates use of a closed container, binding or provider.
	ErrCodeDisposed ErrorCode = "DISPOSED"
)

// Resolution errors
const (
	// ErrCodeNotRegistered indicates a key with no binding in the container chain.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeAmbiguousConstructor indicates more than one constructor marked for injection.
	ErrCodeAmbiguousConstructor ErrorCode = "AMBIGUOUS_CONSTRUCTOR"
)
