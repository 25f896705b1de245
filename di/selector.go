package di

import (
	"reflect"
	"sync"

	apperrors "github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/introspect"
)

// injectMarks caches IsMarkedInjectable per constructor for the life of the
// process. It is the only state shared between containers.
var injectMarks sync.Map // *introspect.Constructor -> bool

func isMarkedInjectable(analyzer introspect.Analyzer, ctor *introspect.Constructor) bool {
	if v, ok := injectMarks.Load(ctor); ok {
		return v.(bool)
	}
	marked := analyzer.IsMarkedInjectable(ctor)
	injectMarks.Store(ctor, marked)
	return marked
}

// selectConstructor picks the constructor used to activate typ: the only
// one, else the single one marked injectable, else the first declared.
func selectConstructor(analyzer introspect.Analyzer, typ reflect.Type) (*introspect.Constructor, error) {
	ctors, err := analyzer.AnalyzeConstructors(typ)
	if err != nil {
		return nil, err
	}
	switch len(ctors) {
	case 0:
		return nil, apperrors.NoConstructor(typ)
	case 1:
		return ctors[0], nil
	}

	var marked *introspect.Constructor
	count := 0
	for _, ctor := range ctors {
		if isMarkedInjectable(analyzer, ctor) {
			marked = ctor
			count++
		}
	}
	switch count {
	case 0:
		return ctors[0], nil
	case 1:
		return marked, nil
	default:
		return nil, apperrors.AmbiguousConstructor(typ, count)
	}
}
