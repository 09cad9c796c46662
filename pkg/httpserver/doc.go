// Package httpserver wraps net/http with graceful shutdown for the status
// daemon. Run blocks until the context is canceled, an interrupt arrives, or
// the listener fails; Shutdown drains in-flight requests within the
// configured timeout and then runs the registered stop hooks.
package httpserver
