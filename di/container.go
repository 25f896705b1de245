package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/introspect"
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/observability"
)

// BindingSource is a read-only binding lookup, used as a container parent.
type BindingSource interface {
	GetBinding(key reflect.Type) *Binding
}

// bindingFinder is a BindingSource that can search its own parents.
type bindingFinder interface {
	FindBinding(key reflect.Type) *Binding
}

// Container holds bindings and the instances it cached for scoped bindings.
//
// A Container is not safe for concurrent use.
type Container struct {
	id       string
	bindings map[reflect.Type]*Binding
	order    []*Binding
	scoped   map[reflect.Type]collection
	scopedAt []reflect.Type

	parent   BindingSource
	analyzer introspect.Analyzer
	base     *logger.Logger
	log      *logger.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer

	// spanCtx carries the span of the resolution in progress so nested
	// resolutions nest under it.
	spanCtx context.Context
	closed  bool
}

// New creates a container.
func New(opts ...Option) (*Container, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	c := &Container{
		id:       uuid.NewString(),
		bindings: make(map[reflect.Type]*Binding, o.capacity),
		order:    make([]*Binding, 0, o.capacity),
		scoped:   make(map[reflect.Type]collection, o.scopeCapacity),
		scopedAt: make([]reflect.Type, 0, o.scopeCapacity),
		parent:   o.parent,
		analyzer: o.analyzer,
		metrics:  o.metrics,
		tracer:   o.tracer,
	}

	// Without an explicit logger the one registered under "di" is used.
	c.base = o.logger
	var named *logger.Logger
	if c.base != nil {
		named = c.base.WithComponent(component)
	} else {
		named = logger.Get(component)
	}
	fields := logger.Fields(logger.FieldContainerID, c.id)
	if p, ok := o.parent.(*Container); ok {
		fields[logger.FieldParentID] = p.id
	}
	c.log = named.WithFields(fields)
	c.log.Debug("container created", logger.Fields(
		"capacity", o.capacity,
		"scope_capacity", o.scopeCapacity,
	))
	return c, nil
}

// NewChild creates a container whose parent is c. The child shares c's
// analyzer, logger, metrics and tracer unless opts override them.
func (c *Container) NewChild(opts ...Option) (*Container, error) {
	if c.closed {
		return nil, apperrors.Disposed("container")
	}
	inherited := []Option{
		WithParent(c),
		WithAnalyzer(c.analyzer),
		WithMetrics(c.metrics),
		WithTracer(c.tracer),
	}
	if c.base != nil {
		inherited = append(inherited, WithLogger(c.base))
	}
	return New(append(inherited, opts...)...)
}

// ID returns the container's unique id.
func (c *Container) ID() string { return c.id }

// Bind returns the binding for key, creating it on first use. Repeated calls
// return the same Binding.
func (c *Container) Bind(key reflect.Type) *Binding {
	if key == nil {
		b := newBinding(c, nil)
		return b.fail(apperrors.NilArgument("type"))
	}
	if c.closed {
		b := newBinding(c, key)
		return b.fail(apperrors.Disposed("container"))
	}
	if s, elem := classify(key); s != shapeScalar {
		b := newBinding(c, key)
		return b.fail(apperrors.InvalidArgument("type",
			fmt.Sprintf("%s is resolved as a collection; bind %s instead", key, elem)))
	}
	if b, ok := c.bindings[key]; ok {
		return b
	}
	b := newBinding(c, key)
	c.bindings[key] = b
	c.order = append(c.order, b)
	c.log.Debug("binding created", logger.Fields(logger.FieldKey, key.String()))
	return b
}

// GetBinding returns the local binding for key, or nil. The parent is not
// consulted.
func (c *Container) GetBinding(key reflect.Type) *Binding {
	return c.bindings[key]
}

// FindBinding returns the local binding for key, falling back to the parent
// chain.
func (c *Container) FindBinding(key reflect.Type) *Binding {
	if b, ok := c.bindings[key]; ok {
		return b
	}
	switch p := c.parent.(type) {
	case nil:
		return nil
	case bindingFinder:
		return p.FindBinding(key)
	default:
		return p.GetBinding(key)
	}
}

// Resolve returns an instance for key. A slice key or an iter.Seq key
// returns every instance bound to its element type, in binding order.
func (c *Container) Resolve(key reflect.Type) (any, error) {
	if key == nil {
		return nil, apperrors.NilArgument("type")
	}
	if c.closed {
		return nil, apperrors.Disposed("container")
	}

	s, elem := classify(key)
	end := c.startSpan(observability.SpanResolve,
		attribute.String(observability.AttrKey, key.String()),
		attribute.String(observability.AttrKind, kindOf(s)),
	)
	defer func() {
		if r := recover(); r != nil {
			end(fmt.Errorf("panic resolving %s: %v", key, r))
			panic(r)
		}
	}()

	var (
		instance any
		err      error
	)
	if s == shapeScalar {
		instance, err = c.resolveScalar(key)
	} else {
		instance, err = c.resolveCollection(key, s, elem)
	}

	end(err)
	if c.metrics != nil {
		c.metrics.RecordResolve(context.Background(), kindOf(s), err)
	}
	if err != nil {
		if c.log.Enabled(zerolog.DebugLevel) {
			c.log.Debug("resolution failed", logger.Fields(
				logger.FieldKey, key.String(),
				logger.FieldError, err.Error(),
			))
		}
		return nil, err
	}
	return instance, nil
}

func (c *Container) lookup(key, requested reflect.Type) (*Binding, error) {
	b := c.FindBinding(key)
	if b == nil {
		return nil, apperrors.NotRegistered(requested)
	}
	if b.err != nil {
		return nil, b.err
	}
	return b, nil
}

func (c *Container) resolveScalar(key reflect.Type) (any, error) {
	b, err := c.lookup(key, key)
	if err != nil {
		return nil, err
	}
	defer c.lendSpan(b.owner)()
	if len(b.values) == 0 {
		return nil, apperrors.EmptyBinding(key)
	}
	if !b.IsScoped() {
		return c.produce(key, b.values[0])
	}

	if cached, ok := c.scoped[key]; ok {
		c.recordScope(true, observability.KindScalar)
		return cached.value, nil
	}
	c.recordScope(false, observability.KindScalar)
	instance, err := c.produce(key, b.values[0])
	if err != nil {
		return nil, err
	}
	c.cache(key, collection{value: instance, items: []any{instance}})
	return instance, nil
}

func (c *Container) resolveCollection(key reflect.Type, s shape, elem reflect.Type) (any, error) {
	b, err := c.lookup(elem, key)
	if err != nil {
		return nil, err
	}
	defer c.lendSpan(b.owner)()
	if !b.IsScoped() {
		built, err := buildCollection(key, s, elem, b.values)
		if err != nil {
			return nil, err
		}
		return built.value, nil
	}

	if cached, ok := c.scoped[key]; ok {
		c.recordScope(true, observability.KindCollection)
		return cached.value, nil
	}
	c.recordScope(false, observability.KindCollection)
	built, err := buildCollection(key, s, elem, b.values)
	if err != nil {
		return nil, err
	}
	c.cache(key, built)
	return built.value, nil
}

func (c *Container) produce(key reflect.Type, p InstanceProvider) (any, error) {
	instance, err := p.GetInstance()
	if err != nil {
		return nil, err
	}
	if err := checkAssignable(key, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func (c *Container) cache(key reflect.Type, entry collection) {
	c.scoped[key] = entry
	c.scopedAt = append(c.scopedAt, key)
	if c.log.Enabled(zerolog.DebugLevel) {
		c.log.Debug("scoped instance cached", logger.Fields(
			logger.FieldKey, key.String(),
			logger.FieldCount, len(entry.items),
		))
	}
}

func (c *Container) recordScope(hit bool, kind string) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.RecordScopeHit(context.Background(), kind)
	} else {
		c.metrics.RecordScopeMiss(context.Background(), kind)
	}
}

// Close closes every scoped instance this container cached that implements
// io.Closer, in caching order and at most once each, then closes the
// container's bindings. Parent and child containers are not touched.
// Closing twice reports a disposed error.
func (c *Container) Close() error {
	if c.closed {
		return apperrors.Disposed("container")
	}
	end := c.startSpan(observability.SpanClose)
	c.closed = true

	var errs []error
	closed := 0
	seen := make(map[io.Closer]struct{})
	for _, key := range c.scopedAt {
		for _, item := range c.scoped[key].items {
			closer, ok := item.(io.Closer)
			if !ok {
				continue
			}
			// Values holding slices, maps or funcs cannot be map keys.
			if reflect.ValueOf(closer).Comparable() {
				if _, dup := seen[closer]; dup {
					continue
				}
				seen[closer] = struct{}{}
			}
			closed++
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	clear(c.scoped)
	c.scopedAt = c.scopedAt[:0]

	for _, b := range c.order {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	end(err)
	if c.metrics != nil {
		c.metrics.RecordDispose(context.Background(), closed, err)
	}
	c.log.Debug("container disposed", logger.Fields(
		logger.FieldCount, closed,
		"bindings", len(c.order),
	))
	return err
}

// startSpan opens a span under the resolution in progress and returns the
// function that ends it.
func (c *Container) startSpan(name string, attrs ...attribute.KeyValue) func(error) {
	if c.tracer == nil {
		return endNoop
	}
	parent := c.spanCtx
	if parent == nil {
		parent = context.Background()
	}
	attrs = append(attrs, attribute.String(observability.AttrContainerID, c.id))
	ctx, span := c.tracer.Start(parent, name, trace.WithAttributes(attrs...))
	c.spanCtx = ctx
	return func(err error) {
		c.spanCtx = parent
		observability.EndSpan(span, err)
	}
}

func endNoop(error) {}

// lendSpan parents the resolutions owner performs on c's span in progress,
// so dependencies of a binding inherited from an ancestor nest under the
// request that needed them. The returned function restores owner.
func (c *Container) lendSpan(owner *Container) func() {
	if owner == nil || owner == c || c.spanCtx == nil {
		return restoreNoop
	}
	prev := owner.spanCtx
	owner.spanCtx = c.spanCtx
	return func() { owner.spanCtx = prev }
}

func restoreNoop() {}
