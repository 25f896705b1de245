package di

import (
	"errors"
	"fmt"
	"reflect"

	apperrors "github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/validation"
)

// Binding associates one key with an ordered list of instance providers.
// The first provider serves scalar resolution; all of them serve collection
// resolution.
//
// Configuration calls chain:
//
//	err := c.Bind(di.Type[Store]()).To(di.Type[*pgStore]()).AsSingle()
//
// The first failing call is recorded on the binding. Later calls become
// no-ops, the lifetime calls return the error and so does any resolution
// that reaches the binding.
type Binding struct {
	key    reflect.Type
	values []InstanceProvider
	owner  *Container
	err    error
	closed bool
}

func newBinding(owner *Container, key reflect.Type) *Binding {
	return &Binding{key: key, owner: owner}
}

// Key returns the bound key.
func (b *Binding) Key() reflect.Type { return b.key }

// Values returns a copy of the providers in binding order.
func (b *Binding) Values() []InstanceProvider {
	out := make([]InstanceProvider, len(b.values))
	copy(out, b.values)
	return out
}

// IsScoped reports whether the first provider is scope-decorated.
func (b *Binding) IsScoped() bool {
	if len(b.values) == 0 {
		return false
	}
	_, ok := b.values[0].(*ScopeProvider)
	return ok
}

// Err returns the first configuration error, if any.
func (b *Binding) Err() error { return b.err }

// To appends an activator for typ, which must be assignable to the key.
func (b *Binding) To(typ reflect.Type) *Binding {
	if !b.configurable() {
		return b
	}
	if typ == nil {
		return b.fail(apperrors.NilArgument("type"))
	}
	if !typ.AssignableTo(b.key) {
		return b.fail(apperrors.TypeMismatch(b.key, typ.String()))
	}
	return b.add(b.activator(typ))
}

// ToSelf appends an activator for the key itself.
func (b *Binding) ToSelf() *Binding {
	if !b.configurable() {
		return b
	}
	return b.add(b.activator(b.key))
}

// ToInstance appends a provider that always returns instance.
func (b *Binding) ToInstance(instance any) *Binding {
	if !b.configurable() {
		return b
	}
	if validation.IsNil(instance) {
		return b.fail(apperrors.NilArgument("instance"))
	}
	if err := checkAssignable(b.key, instance); err != nil {
		return b.fail(err)
	}
	return b.add(NewValueProvider(instance))
}

// ToFactory appends a provider that activates typ, which must
// implement Factory, on each call and returns what it creates.
func (b *Binding) ToFactory(typ reflect.Type) *Binding {
	if !b.configurable() {
		return b
	}
	if typ == nil {
		return b.fail(apperrors.NilArgument("factory type"))
	}
	if !typ.Implements(factoryType) {
		return b.fail(apperrors.TypeMismatch(factoryType, typ.String()))
	}
	inner, err := b.activator(typ)
	if err != nil {
		return b.fail(err)
	}
	return b.add(NewFactoryProvider(inner))
}

// ToFactoryObject appends a provider that delegates to factory.
func (b *Binding) ToFactoryObject(factory Factory) *Binding {
	if !b.configurable() {
		return b
	}
	if validation.IsNil(factory) {
		return b.fail(apperrors.NilArgument("factory"))
	}
	return b.addFactoryValue(factory)
}

// ToFactoryFunc appends a provider that calls fn.
func (b *Binding) ToFactoryFunc(fn FactoryFunc) *Binding {
	if !b.configurable() {
		return b
	}
	if fn == nil {
		return b.fail(apperrors.NilArgument("factory"))
	}
	return b.addFactoryValue(fn)
}

// ToInstanceProvider appends a custom provider.
func (b *Binding) ToInstanceProvider(p InstanceProvider) *Binding {
	if !b.configurable() {
		return b
	}
	if validation.IsNil(p) {
		return b.fail(apperrors.NilArgument("instance provider"))
	}
	return b.add(p, nil)
}

// AsSingle wraps every provider in its own SingletonProvider.
func (b *Binding) AsSingle() error {
	return b.decorate(lifetimeSingleton, func(p InstanceProvider) (InstanceProvider, error) {
		return NewSingletonProvider(p)
	})
}

// AsScoped wraps every provider in its own ScopeProvider.
func (b *Binding) AsScoped() error {
	return b.decorate(lifetimeScoped, func(p InstanceProvider) (InstanceProvider, error) {
		return NewScopeProvider(p)
	})
}

// AsTransient leaves the providers undecorated. It only validates.
func (b *Binding) AsTransient() error {
	if b.err != nil {
		return b.err
	}
	if b.closed {
		return apperrors.Disposed("binding")
	}
	return nil
}

// Close closes every provider in order. Closing twice reports a disposed
// error.
func (b *Binding) Close() error {
	if b.closed {
		return apperrors.Disposed("binding")
	}
	b.closed = true
	var errs []error
	for _, p := range b.values {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const (
	lifetimeSingleton = "singleton"
	lifetimeScoped    = "scoped"
)

func (b *Binding) decorate(lifetime string, wrap func(InstanceProvider) (InstanceProvider, error)) error {
	if b.err != nil {
		return b.err
	}
	if b.closed {
		return apperrors.Disposed("binding")
	}
	if len(b.values) == 0 {
		return apperrors.EmptyBinding(b.key)
	}

	decorated := make([]InstanceProvider, len(b.values))
	for i, p := range b.values {
		d, err := wrap(p)
		if err != nil {
			return err
		}
		decorated[i] = d
	}
	b.values = decorated

	b.owner.log.Debug("binding lifetime set", logger.Fields(
		logger.FieldKey, b.key.String(),
		logger.FieldLifetime, lifetime,
		logger.FieldProviders, len(decorated),
	))
	return nil
}

// configurable records a disposed error on a closed binding and reports
// whether configuration may proceed.
func (b *Binding) configurable() bool {
	if b.err != nil {
		return false
	}
	if b.closed {
		b.err = apperrors.Disposed("binding")
		return false
	}
	return true
}

func (b *Binding) fail(err error) *Binding {
	if b.err == nil {
		b.err = err
		b.owner.log.Debug("binding configuration failed", logger.Fields(
			logger.FieldKey, describe(b.key),
			logger.FieldError, err.Error(),
		))
	}
	return b
}

// add appends p, or records err when the provider could not be built.
func (b *Binding) add(p InstanceProvider, err error) *Binding {
	if err != nil {
		return b.fail(err)
	}
	b.values = append(b.values, p)
	return b
}

func (b *Binding) addFactoryValue(factory Factory) *Binding {
	inner, err := NewValueProvider(factory)
	if err != nil {
		return b.fail(err)
	}
	return b.add(NewFactoryProvider(inner))
}

func (b *Binding) activator(typ reflect.Type) (*ActivatorProvider, error) {
	p, err := NewActivatorProvider(typ, b.owner.analyzer, b.owner)
	if err != nil {
		return nil, err
	}
	p.metrics = b.owner.metrics
	return p, nil
}

func (b *Binding) String() string {
	return fmt.Sprintf("binding(%s, %d providers)", describe(b.key), len(b.values))
}

func describe(key reflect.Type) string {
	if key == nil {
		return "<nil>"
	}
	return key.String()
}
