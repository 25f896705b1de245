package introspect

import (
	"fmt"
	"reflect"
	"sync"
)

// Analyzer is the capability the binding engine needs to activate types.
type Analyzer interface {
	// AnalyzeConstructors returns the constructors of t in a stable order.
	AnalyzeConstructors(t reflect.Type) ([]*Constructor, error)
	// IsMarkedInjectable reports whether c is a designated injection point.
	IsMarkedInjectable(c *Constructor) bool
}

// ConstructorOption configures a registered constructor.
type ConstructorOption func(*registration)

type registration struct {
	inject bool
}

// Inject marks the constructor as the injection point of its type.
func Inject() ConstructorOption {
	return func(r *registration) { r.inject = true }
}

// Registry is an Analyzer backed by explicitly registered constructor
// functions. It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	constructors map[reflect.Type][]*Constructor
	marked       map[*Constructor]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[reflect.Type][]*Constructor),
		marked:       make(map[*Constructor]bool),
	}
}

// Register adds fn as a constructor of the type it returns. Constructors of
// the same type keep their registration order.
func (r *Registry) Register(fn any, opts ...ConstructorOption) (*Constructor, error) {
	c, err := newConstructor(fn)
	if err != nil {
		return nil, err
	}
	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	c.Index = len(r.constructors[c.Owner])
	r.constructors[c.Owner] = append(r.constructors[c.Owner], c)
	r.marked[c] = reg.inject
	return c, nil
}

// MustRegister is Register that panics on an invalid constructor. Intended
// for package init blocks.
func (r *Registry) MustRegister(fn any, opts ...ConstructorOption) *Constructor {
	c, err := r.Register(fn, opts...)
	if err != nil {
		panic(fmt.Sprintf("introspect: %v", err))
	}
	return c
}

// AnalyzeConstructors implements Analyzer.
func (r *Registry) AnalyzeConstructors(t reflect.Type) ([]*Constructor, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot analyze a nil type")
	}

	r.mu.RLock()
	registered := r.constructors[t]
	r.mu.RUnlock()

	if len(registered) > 0 {
		out := make([]*Constructor, len(registered))
		copy(out, registered)
		return out, nil
	}
	if c, ok := implicitConstructor(t); ok {
		return []*Constructor{c}, nil
	}
	return nil, nil
}

// IsMarkedInjectable implements Analyzer.
func (r *Registry) IsMarkedInjectable(c *Constructor) bool {
	if c == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.marked[c]
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry containers use unless told
// otherwise.
func Default() *Registry { return defaultRegistry }

// Register adds fn to the default registry.
func Register(fn any, opts ...ConstructorOption) (*Constructor, error) {
	return defaultRegistry.Register(fn, opts...)
}

// MustRegister adds fn to the default registry and panics on error.
func MustRegister(fn any, opts ...ConstructorOption) *Constructor {
	return defaultRegistry.MustRegister(fn, opts...)
}
