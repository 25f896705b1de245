// Package validation checks configuration values before a container is
// built.
//
// Struct tag validation (go-playground/validator) covers config structs
// loaded from files and the environment; the programmatic Validator covers
// arguments handed to constructors and options. Both report failures as an
// *errors.AppError with code INVALID_CONFIGURATION and per-field details.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Capacity int `mapstructure:"capacity" validate:"gt=0"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	err := validation.New().Positive("capacity", n).NotNil("analyzer", a).Validate()
package validation
