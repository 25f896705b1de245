// Package version reports the bindkit build version.
//
// Version is normally stamped at build time:
//
//	go build -ldflags "-X github.com/kbukum/bindkit/version.Version=0.3.0"
//
// Without it the module version and VCS revision recorded by the Go
// toolchain are used.
package version
