// Package requestid plumbs a correlation identifier through context so log
// lines from one guarded call can be tied together across the manager, the
// guard, and the HTTP surface.
//
// The middleware accepts a valid inbound X-Request-ID or mints a UUID; the
// guard does the same for calls that start outside an HTTP request.
package requestid
