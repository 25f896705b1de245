// Package introspect describes how concrete types are constructed.
//
// The binding engine never inspects a type on its own. It asks an Analyzer
// for the ordered list of a type's constructors and whether a constructor is
// marked as the injection point. Registry is the default Analyzer: host code
// registers constructor functions for the types it wants activated.
//
//	introspect.Register(NewUserService)
//	introspect.Register(NewUserServiceWithCache, introspect.Inject())
//
// A constructor is any function returning the produced type, optionally
// followed by an error. Its parameter types are what the container resolves
// before calling it.
package introspect
