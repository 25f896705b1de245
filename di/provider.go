package di

import (
	"context"
	"fmt"
	"reflect"

	apperrors "github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/introspect"
	"github.com/kbukum/bindkit/observability"
	"github.com/kbukum/bindkit/validation"
)

// InstanceProvider produces instances on demand. GetInstance must not be
// called after Close.
type InstanceProvider interface {
	GetInstance() (any, error)
	Close() error
}

// Resolver resolves a key to an instance. *Container implements it.
type Resolver interface {
	Resolve(key reflect.Type) (any, error)
}

// Factory creates instances for a binding.
type Factory interface {
	Create() (any, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func() (any, error)

// Create calls f.
func (f FactoryFunc) Create() (any, error) { return f() }

var factoryType = reflect.TypeFor[Factory]()

// ValueProvider always returns the same, already constructed value. Closing
// it does not close the value; that is left to whoever created it.
type ValueProvider struct {
	value  any
	closed bool
}

// NewValueProvider wraps value, which must not be nil.
func NewValueProvider(value any) (*ValueProvider, error) {
	if value == nil {
		return nil, apperrors.NilArgument("instance")
	}
	return &ValueProvider{value: value}, nil
}

// GetInstance returns the wrapped value.
func (p *ValueProvider) GetInstance() (any, error) {
	if p.closed {
		return nil, apperrors.Disposed("value provider")
	}
	return p.value, nil
}

// Close marks the provider closed. The value is left open.
func (p *ValueProvider) Close() error {
	p.closed = true
	return nil
}

// ActivatorProvider builds a new instance of a type on every call by
// selecting one of its constructors and resolving each parameter on the
// owning resolver.
type ActivatorProvider struct {
	typ      reflect.Type
	analyzer introspect.Analyzer
	resolver Resolver
	metrics  *observability.Metrics
	closed   bool
}

// NewActivatorProvider fails immediately when any argument is nil.
func NewActivatorProvider(typ reflect.Type, analyzer introspect.Analyzer, resolver Resolver) (*ActivatorProvider, error) {
	switch {
	case typ == nil:
		return nil, apperrors.NilArgument("type")
	case validation.IsNil(analyzer):
		return nil, apperrors.NilArgument("analyzer")
	case validation.IsNil(resolver):
		return nil, apperrors.NilArgument("resolver")
	}
	return &ActivatorProvider{typ: typ, analyzer: analyzer, resolver: resolver}, nil
}

// Type returns the type the provider activates.
func (p *ActivatorProvider) Type() reflect.Type { return p.typ }

// GetInstance constructs a new instance, resolving constructor parameters on
// the owning resolver.
func (p *ActivatorProvider) GetInstance() (any, error) {
	if p.closed {
		return nil, apperrors.Disposed("activator provider")
	}
	instance, err := p.activate()
	if p.metrics != nil {
		p.metrics.RecordActivation(context.Background(), err)
	}
	return instance, err
}

func (p *ActivatorProvider) activate() (any, error) {
	ctor, err := selectConstructor(p.analyzer, p.typ)
	if err != nil {
		return nil, err
	}
	args := make([]any, len(ctor.Params))
	for i, param := range ctor.Params {
		arg, err := p.resolver.Resolve(param)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return ctor.Invoke(args)
}

// Close marks the provider closed. Instances already built are not tracked.
func (p *ActivatorProvider) Close() error {
	p.closed = true
	return nil
}

// FactoryProvider asks a Factory for each instance. The factory itself comes
// from an inner provider, so a factory bound by type is activated anew on
// every call unless the binding is lifetime-decorated.
type FactoryProvider struct {
	inner  InstanceProvider
	closed bool
}

// NewFactoryProvider wraps a provider whose instances implement Factory.
func NewFactoryProvider(inner InstanceProvider) (*FactoryProvider, error) {
	if validation.IsNil(inner) {
		return nil, apperrors.NilArgument("factory provider")
	}
	return &FactoryProvider{inner: inner}, nil
}

// GetInstance obtains the factory from the inner provider and calls Create.
func (p *FactoryProvider) GetInstance() (any, error) {
	if p.closed {
		return nil, apperrors.Disposed("factory provider")
	}
	f, err := p.inner.GetInstance()
	if err != nil {
		return nil, err
	}
	factory, ok := f.(Factory)
	if !ok {
		return nil, apperrors.TypeMismatch(factoryType, fmt.Sprintf("%T", f))
	}
	return factory.Create()
}

// Close closes the provider that owns the factory.
func (p *FactoryProvider) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.inner.Close()
}

// SingletonProvider caches the first successful instance of the provider it
// wraps. Closing it closes the wrapped provider, not the cached instance.
type SingletonProvider struct {
	inner    InstanceProvider
	instance any
	created  bool
	closed   bool
}

// NewSingletonProvider decorates inner.
func NewSingletonProvider(inner InstanceProvider) (*SingletonProvider, error) {
	if validation.IsNil(inner) {
		return nil, apperrors.NilArgument("instance provider")
	}
	return &SingletonProvider{inner: inner}, nil
}

// GetInstance returns the cached instance, creating it on first use. Failed
// attempts are not cached.
func (p *SingletonProvider) GetInstance() (any, error) {
	if p.closed {
		return nil, apperrors.Disposed("singleton provider")
	}
	if p.created {
		return p.instance, nil
	}
	instance, err := p.inner.GetInstance()
	if err != nil {
		return nil, err
	}
	p.instance, p.created = instance, true
	return instance, nil
}

// Close drops the cached instance and closes the wrapped provider.
func (p *SingletonProvider) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.instance = nil
	return p.inner.Close()
}

// ScopeProvider marks a binding as scoped. It delegates every call; the
// per-container caching happens in Container.
type ScopeProvider struct {
	inner  InstanceProvider
	closed bool
}

// NewScopeProvider decorates inner.
func NewScopeProvider(inner InstanceProvider) (*ScopeProvider, error) {
	if validation.IsNil(inner) {
		return nil, apperrors.NilArgument("instance provider")
	}
	return &ScopeProvider{inner: inner}, nil
}

// GetInstance delegates to the wrapped provider.
func (p *ScopeProvider) GetInstance() (any, error) {
	if p.closed {
		return nil, apperrors.Disposed("scope provider")
	}
	return p.inner.GetInstance()
}

// Close closes the wrapped provider.
func (p *ScopeProvider) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.inner.Close()
}
