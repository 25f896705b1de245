package di

import (
	"errors"
	"reflect"
	"testing"

	apperrors "github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/introspect"
)

func TestValueProvider(t *testing.T) {
	t.Run("rejects nil", func(t *testing.T) {
		if _, err := NewValueProvider(nil); !errors.Is(err, apperrors.ErrInvalidConfiguration) {
			t.Errorf("expected invalid configuration, got %v", err)
		}
	})

	t.Run("returns the same value", func(t *testing.T) {
		w := &widget{name: "a"}
		p, err := NewValueProvider(w)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first, _ := p.GetInstance()
		second, _ := p.GetInstance()
		if first != w || second != w {
			t.Error("expected the wrapped value every time")
		}
	})

	t.Run("close leaves the value alone", func(t *testing.T) {
		w := &widget{name: "a"}
		p, _ := NewValueProvider(w)
		if err := p.Close(); err != nil {
			t.Fatalf("unexpected close error: %v", err)
		}
		if w.closed {
			t.Error("expected value not to be closed")
		}
		if _, err := p.GetInstance(); !errors.Is(err, apperrors.ErrDisposed) {
			t.Errorf("expected disposed error, got %v", err)
		}
	})
}

func TestNewActivatorProvider_RejectsNil(t *testing.T) {
	reg := introspect.NewRegistry()
	resolver := mapResolver{}
	var nilContainer *Container

	tests := []struct {
		name     string
		typ      reflect.Type
		analyzer introspect.Analyzer
		resolver Resolver
	}{
		{"nil type", nil, reg, resolver},
		{"nil analyzer", Type[*widget](), nil, resolver},
		{"nil resolver", Type[*widget](), reg, nil},
		{"typed nil resolver", Type[*widget](), reg, nilContainer},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewActivatorProvider(tc.typ, tc.analyzer, tc.resolver)
			if !errors.Is(err, apperrors.ErrInvalidConfiguration) {
				t.Errorf("expected invalid configuration, got %v", err)
			}
		})
	}
}

func TestActivatorProvider_NewInstanceEachCall(t *testing.T) {
	p, err := NewActivatorProvider(Type[*widget](), introspect.NewRegistry(), mapResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := p.GetInstance()
	if err != nil {
		t.Fatalf("GetInstance failed: %v", err)
	}
	second, _ := p.GetInstance()
	if first == second {
		t.Error("expected distinct instances")
	}
	if _, ok := first.(*widget); !ok {
		t.Errorf("expected *widget, got %T", first)
	}
	if p.Type() != Type[*widget]() {
		t.Errorf("unexpected type %v", p.Type())
	}
}

func TestActivatorProvider_ResolvesParameters(t *testing.T) {
	reg := introspect.NewRegistry()
	reg.MustRegister(newWithDependency)
	dep := &gadget{name: "dep"}

	p, _ := NewActivatorProvider(Type[*withDependency](), reg, mapResolver{Type[testObject](): dep})
	instance, err := p.GetInstance()
	if err != nil {
		t.Fatalf("GetInstance failed: %v", err)
	}
	if got := instance.(*withDependency).dep; got != dep {
		t.Errorf("expected injected dependency, got %v", got)
	}
}

func TestActivatorProvider_PropagatesErrors(t *testing.T) {
	t.Run("missing parameter", func(t *testing.T) {
		reg := introspect.NewRegistry()
		reg.MustRegister(newWithDependency)
		p, _ := NewActivatorProvider(Type[*withDependency](), reg, mapResolver{})
		if _, err := p.GetInstance(); !errors.Is(err, apperrors.ErrNotRegistered) {
			t.Errorf("expected not registered, got %v", err)
		}
	})

	t.Run("constructor error unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		reg := introspect.NewRegistry()
		reg.MustRegister(func() (*gadget, error) { return nil, boom })
		p, _ := NewActivatorProvider(Type[*gadget](), reg, mapResolver{})
		if _, err := p.GetInstance(); err != boom {
			t.Errorf("expected constructor error unchanged, got %v", err)
		}
	})

	t.Run("disposed", func(t *testing.T) {
		p, _ := NewActivatorProvider(Type[*widget](), introspect.NewRegistry(), mapResolver{})
		p.Close()
		if _, err := p.GetInstance(); !errors.Is(err, apperrors.ErrDisposed) {
			t.Errorf("expected disposed error, got %v", err)
		}
	})
}

func TestFactoryProvider(t *testing.T) {
	t.Run("rejects nil inner", func(t *testing.T) {
		if _, err := NewFactoryProvider(nil); !errors.Is(err, apperrors.ErrInvalidConfiguration) {
			t.Errorf("expected invalid configuration, got %v", err)
		}
	})

	t.Run("calls the factory each time", func(t *testing.T) {
		calls := 0
		inner, _ := NewValueProvider(FactoryFunc(func() (any, error) {
			calls++
			return &gadget{name: "g"}, nil
		}))
		p, _ := NewFactoryProvider(inner)
		first, _ := p.GetInstance()
		second, _ := p.GetInstance()
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
		if first == second {
			t.Error("expected distinct products")
		}
	})

	t.Run("inner is not a factory", func(t *testing.T) {
		inner, _ := NewValueProvider("not a factory")
		p, _ := NewFactoryProvider(inner)
		if _, err := p.GetInstance(); !errors.Is(err, apperrors.ErrTypeMismatch) {
			t.Errorf("expected type mismatch, got %v", err)
		}
	})

	t.Run("factory error unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		inner, _ := NewValueProvider(FactoryFunc(func() (any, error) { return nil, boom }))
		p, _ := NewFactoryProvider(inner)
		if _, err := p.GetInstance(); err != boom {
			t.Errorf("expected factory error unchanged, got %v", err)
		}
	})

	t.Run("close closes inner once", func(t *testing.T) {
		inner := newWidgetProvider()
		p, _ := NewFactoryProvider(inner)
		p.Close()
		p.Close()
		if inner.closes != 1 {
			t.Errorf("expected inner closed once, got %d", inner.closes)
		}
		if _, err := p.GetInstance(); !errors.Is(err, apperrors.ErrDisposed) {
			t.Errorf("expected disposed error, got %v", err)
		}
	})
}

func TestSingletonProvider(t *testing.T) {
	t.Run("caches the first instance", func(t *testing.T) {
		inner := newWidgetProvider()
		p, _ := NewSingletonProvider(inner)
		first, _ := p.GetInstance()
		second, _ := p.GetInstance()
		if first != second {
			t.Error("expected the same instance")
		}
		if inner.calls != 1 {
			t.Errorf("expected inner called once, got %d", inner.calls)
		}
	})

	t.Run("does not cache failures", func(t *testing.T) {
		fail := true
		inner := &countingProvider{produce: func() (any, error) {
			if fail {
				return nil, errors.New("not yet")
			}
			return &widget{}, nil
		}}
		p, _ := NewSingletonProvider(inner)
		if _, err := p.GetInstance(); err == nil {
			t.Fatal("expected first call to fail")
		}
		fail = false
		if v, err := p.GetInstance(); err != nil || v == nil {
			t.Errorf("expected recovery, got %v, %v", v, err)
		}
	})

	t.Run("close closes inner, not the instance", func(t *testing.T) {
		inner := newWidgetProvider()
		p, _ := NewSingletonProvider(inner)
		v, _ := p.GetInstance()
		p.Close()
		p.Close()
		if inner.closes != 1 {
			t.Errorf("expected inner closed once, got %d", inner.closes)
		}
		if v.(*widget).closed {
			t.Error("expected cached instance to stay open")
		}
		if _, err := p.GetInstance(); !errors.Is(err, apperrors.ErrDisposed) {
			t.Errorf("expected disposed error, got %v", err)
		}
	})

	t.Run("rejects nil inner", func(t *testing.T) {
		if _, err := NewSingletonProvider(nil); !errors.Is(err, apperrors.ErrInvalidConfiguration) {
			t.Errorf("expected invalid configuration, got %v", err)
		}
	})
}

func TestScopeProvider(t *testing.T) {
	inner := newWidgetProvider()
	p, err := NewScopeProvider(inner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := p.GetInstance()
	second, _ := p.GetInstance()
	if first == second {
		t.Error("expected scope provider to delegate every call")
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.calls)
	}

	p.Close()
	p.Close()
	if inner.closes != 1 {
		t.Errorf("expected inner closed once, got %d", inner.closes)
	}
	if _, err := p.GetInstance(); !errors.Is(err, apperrors.ErrDisposed) {
		t.Errorf("expected disposed error, got %v", err)
	}

	if _, err := NewScopeProvider(nil); !errors.Is(err, apperrors.ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration, got %v", err)
	}
}
