package logger

import "sync"

// named holds loggers registered by component name. Packages such as di
// look themselves up here when no logger is passed in explicitly.
var named sync.Map // string -> *Logger

// Register makes l the logger returned by Get(name). A nil l removes the
// registration.
func Register(name string, l *Logger) {
	if l == nil {
		named.Delete(name)
		return
	}
	named.Store(name, l)
}

// Unregister removes the logger registered under name.
func Unregister(name string) { named.Delete(name) }

// Get returns the logger registered under name, or the global logger
// tagged with name as its component.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
