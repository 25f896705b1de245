package introspect

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// Constructor describes one way to build a value of Owner.
type Constructor struct {
	// Owner is the type the constructor produces.
	Owner reflect.Type
	// Params are the parameter types in declaration order.
	Params []reflect.Type
	// Index is the declaration position among Owner's constructors.
	Index int

	fn       reflect.Value
	hasError bool
	implicit bool
}

// Implicit reports whether the constructor was synthesized for a struct
// type with no registered constructors.
func (c *Constructor) Implicit() bool { return c.implicit }

// String returns a readable signature, used in logs and errors.
func (c *Constructor) String() string {
	if c.implicit {
		return fmt.Sprintf("new(%s)", c.Owner)
	}
	return fmt.Sprintf("%s#%d%s", c.Owner, c.Index, c.fn.Type())
}

// Invoke calls the constructor with already resolved arguments. An error
// returned by the constructor function is passed through unchanged.
func (c *Constructor) Invoke(args []any) (any, error) {
	if len(args) != len(c.Params) {
		return nil, fmt.Errorf("constructor %s takes %d arguments, got %d", c, len(c.Params), len(args))
	}
	if c.implicit {
		return newZero(c.Owner), nil
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		param := c.Params[i]
		if arg == nil {
			in[i] = reflect.Zero(param)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(param) {
			return nil, fmt.Errorf("constructor %s argument %d: %s is not assignable to %s", c, i, v.Type(), param)
		}
		in[i] = v
	}

	out := c.fn.Call(in)
	if c.hasError {
		if errVal := out[1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}
	return out[0].Interface(), nil
}

// newConstructor validates fn and builds its descriptor.
func newConstructor(fn any) (*Constructor, error) {
	if fn == nil {
		return nil, fmt.Errorf("constructor must not be nil")
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %s", t)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("constructor %s must not be variadic", t)
	}

	c := &Constructor{fn: v}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return nil, fmt.Errorf("constructor %s second result must be error", t)
		}
		c.hasError = true
	default:
		return nil, fmt.Errorf("constructor %s must return (T) or (T, error)", t)
	}
	c.Owner = t.Out(0)

	c.Params = make([]reflect.Type, t.NumIn())
	for i := range c.Params {
		c.Params[i] = t.In(i)
	}
	return c, nil
}

// implicitConstructor builds the zero-argument constructor used for struct
// and pointer-to-struct types that have nothing registered.
func implicitConstructor(t reflect.Type) (*Constructor, bool) {
	switch {
	case t.Kind() == reflect.Struct:
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
	default:
		return nil, false
	}
	return &Constructor{Owner: t, Params: []reflect.Type{}, implicit: true}, true
}

func newZero(t reflect.Type) any {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.Zero(t).Interface()
}
