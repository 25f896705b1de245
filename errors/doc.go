// Package errors provides the structured error type shared by the binding
// engine. Every failure the container reports is an *AppError carrying a
// machine-readable code, so callers can branch with errors.Is against the
// sentinels or inspect the code with AsAppError.
package errors
