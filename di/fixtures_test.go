package di

import (
	"reflect"
	"testing"

	apperrors "github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/introspect"
	"github.com/kbukum/bindkit/logger"
)

type testObject interface {
	Name() string
}

// widget is a closable testObject.
type widget struct {
	name   string
	closed bool
}

func (w *widget) Name() string { return w.name }

func (w *widget) Close() error {
	w.closed = true
	return nil
}

// gadget is a testObject without Close.
type gadget struct {
	name string
}

func (g *gadget) Name() string { return g.name }

type withDependency struct {
	dep testObject
}

func newWithDependency(dep testObject) *withDependency {
	return &withDependency{dep: dep}
}

// countingProvider records calls and returns what produce returns.
type countingProvider struct {
	calls   int
	closes  int
	produce func() (any, error)
}

func (p *countingProvider) GetInstance() (any, error) {
	p.calls++
	return p.produce()
}

func (p *countingProvider) Close() error {
	p.closes++
	return nil
}

func newWidgetProvider() *countingProvider {
	return &countingProvider{produce: func() (any, error) { return &widget{name: "w"}, nil }}
}

// mapResolver resolves from a fixed map.
type mapResolver map[reflect.Type]any

func (m mapResolver) Resolve(key reflect.Type) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, apperrors.NotRegistered(key)
	}
	return v, nil
}

func newTestContainer(t *testing.T, opts ...Option) (*Container, *introspect.Registry) {
	t.Helper()
	reg := introspect.NewRegistry()
	base := []Option{WithAnalyzer(reg), WithLogger(logger.Nop())}
	c, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if !c.closed {
			c.Close()
		}
	})
	return c, reg
}

func newChild(t *testing.T, parent *Container, opts ...Option) *Container {
	t.Helper()
	child, err := parent.NewChild(opts...)
	if err != nil {
		t.Fatalf("NewChild failed: %v", err)
	}
	return child
}

func mustBind(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("binding failed: %v", err)
	}
}
