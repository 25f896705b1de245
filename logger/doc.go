// Package logger provides structured logging for bindkit using zerolog.
//
// Containers log binding creation, scoped-instance caching, disposal and
// resolution failures at debug level. Hosts either install a global logger
// with Init or hand a dedicated one to each container.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("di")
//	log.Debug("binding created", logger.Fields("key", "*app.Store"))
package logger
