package di

import (
	"fmt"
	"reflect"
)

// Type returns the key for T. Interface types work as keys:
//
//	di.Type[io.Reader]()
func Type[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Bind returns the binding for T.
//
// Example:
//
//	err := di.Bind[Store](c).To(di.Type[*pgStore]()).AsSingle()
func Bind[T any](c *Container) *Binding {
	return c.Bind(Type[T]())
}

// MustResolve resolves T, panics on error.
// Use this in wiring code where a missing dependency is a programming error.
//
// Example:
//
//	store := di.MustResolve[Store](c)
func MustResolve[T any](c *Container) T {
	key := Type[T]()
	instance, err := c.Resolve(key)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", key, err))
	}
	if instance == nil {
		var zero T
		return zero
	}
	result, ok := instance.(T)
	if !ok {
		panic(fmt.Sprintf("di: component %s is %T, expected %s", key, instance, key))
	}
	return result
}

// Resolve resolves T, returns error on failure. The error wraps the
// container error, so errors.Is works against the errors package sentinels.
//
// Example:
//
//	store, err := di.Resolve[Store](c)
//	if err != nil {
//	    return fmt.Errorf("wiring store: %w", err)
//	}
func Resolve[T any](c *Container) (T, error) {
	var zero T
	key := Type[T]()
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	if instance == nil {
		return zero, nil
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %s", key, instance, key)
	}
	return result, nil
}

// TryResolve resolves T, returns zero value and false on any failure.
// Use this when a dependency is optional.
//
// Example:
//
//	if m, ok := di.TryResolve[*Metrics](c); ok {
//	    m.Record(...)
//	}
func TryResolve[T any](c *Container) (T, bool) {
	result, err := Resolve[T](c)
	if err != nil {
		return result, false
	}
	return result, true
}

// ResolveAll resolves every instance bound to T, in binding order.
func ResolveAll[T any](c *Container) ([]T, error) {
	return Resolve[[]T](c)
}
