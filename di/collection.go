package di

import (
	"reflect"

	apperrors "github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/observability"
)

// shape classifies a requested key.
type shape int

const (
	shapeScalar shape = iota
	// shapeList is any slice type []T.
	shapeList
	// shapeSeq is any func(yield func(T) bool) type, iter.Seq[T] included.
	shapeSeq
)

// classify returns the shape of key and, for collections, the element type
// whose binding serves it.
func classify(key reflect.Type) (shape, reflect.Type) {
	switch key.Kind() {
	case reflect.Slice:
		return shapeList, key.Elem()
	case reflect.Func:
		if elem, ok := seqElem(key); ok {
			return shapeSeq, elem
		}
	}
	return shapeScalar, key
}

func seqElem(t reflect.Type) (reflect.Type, bool) {
	if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
		return nil, false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 1 || yield.NumOut() != 1 || yield.IsVariadic() {
		return nil, false
	}
	if yield.Out(0).Kind() != reflect.Bool {
		return nil, false
	}
	return yield.In(0), true
}

// collection is a built collection: the value handed to the caller and the
// elements it yields.
type collection struct {
	value any
	items []any
}

// buildCollection calls every provider in binding order and packs the
// instances into key, which has shape s and element type elem.
func buildCollection(key reflect.Type, s shape, elem reflect.Type, providers []InstanceProvider) (collection, error) {
	items := make([]any, 0, len(providers))
	for _, p := range providers {
		instance, err := p.GetInstance()
		if err != nil {
			return collection{}, err
		}
		if err := checkAssignable(elem, instance); err != nil {
			return collection{}, err
		}
		items = append(items, instance)
	}

	sliceType := key
	if s == shapeSeq {
		sliceType = reflect.SliceOf(elem)
	}
	list := reflect.MakeSlice(sliceType, len(items), len(items))
	for i, item := range items {
		list.Index(i).Set(valueOf(elem, item))
	}

	if s == shapeList {
		return collection{value: list.Interface(), items: items}, nil
	}
	seq := reflect.MakeFunc(key, func(args []reflect.Value) []reflect.Value {
		yield := args[0]
		for i := 0; i < list.Len(); i++ {
			if !yield.Call([]reflect.Value{list.Index(i)})[0].Bool() {
				break
			}
		}
		return nil
	})
	return collection{value: seq.Interface(), items: items}, nil
}

// checkAssignable reports whether instance can be used as a value of key.
// nil is accepted for key types that have a nil value.
func checkAssignable(key reflect.Type, instance any) error {
	if instance == nil {
		if nillable(key) {
			return nil
		}
		return apperrors.TypeMismatch(key, "<nil>")
	}
	if t := reflect.TypeOf(instance); !t.AssignableTo(key) {
		return apperrors.TypeMismatch(key, t.String())
	}
	return nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func valueOf(t reflect.Type, instance any) reflect.Value {
	if instance == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(instance)
}

func kindOf(s shape) string {
	if s == shapeScalar {
		return observability.KindScalar
	}
	return observability.KindCollection
}
