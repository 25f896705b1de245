// Package di is a reflection-based dependency injection container.
//
// Keys are reflect.Type values. A key is bound to one or more instance
// providers and optionally given a lifetime: transient (the default),
// singleton (one instance per provider) or scoped (one instance per
// resolving container).
//
// # Binding
//
//	c, err := di.New()
//	introspect.MustRegister(NewOrderService)
//
//	err = di.Bind[Store](c).To(di.Type[*pgStore]()).AsSingle()
//	err = di.Bind[*OrderService](c).ToSelf().AsScoped()
//	err = di.Bind[Clock](c).ToInstance(systemClock{}).AsTransient()
//
// Types built by To and ToSelf are activated through an introspect.Analyzer:
// with several constructors, the one registered with introspect.Inject wins,
// otherwise the first registered one. Constructor parameters are resolved
// from the container that owns the binding.
//
// # Resolution
//
//	svc := di.MustResolve[*OrderService](c)
//	all, err := di.ResolveAll[Handler](c)          // []Handler
//	seq, err := di.Resolve[iter.Seq[Handler]](c)   // same order
//
// Slice and iter.Seq-shaped types are always collection requests, so they
// cannot be bound as keys themselves; Bind reports an invalid configuration
// for them. Wrap such a value in a named struct type to bind it.
//
// # Scopes
//
// A child container falls back to its parent for keys it does not bind.
// Scoped bindings inherited from the parent still cache one instance per
// resolving container, and closing the child closes only what it cached.
//
//	child, err := c.NewChild()
//	defer child.Close()
package di
