// Package dbstatus exposes the document-store connection state over HTTP.
//
// Three routes are mounted:
//
//	GET  /status    read-only connection snapshot
//	GET  /health    on-demand health check, 200 when healthy else 503
//	POST /reconnect forced reconnect, gated by a caller-supplied middleware
//
// The package never mutates connection state on its own: the status and
// health routes read snapshots, and the reconnect route delegates to the
// manager's ForceReconnect. Authorization for the reconnect action belongs to
// the embedding application; pass its middleware to Routes.
package dbstatus
