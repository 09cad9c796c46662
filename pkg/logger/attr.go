package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records which part of the connection core emitted the entry.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Kind records a classified error kind under the key "kind".
func Kind(kind string) slog.Attr {
	if kind == "" {
		return slog.Attr{}
	}
	return slog.String("kind", kind)
}

// CorrelationID records the guarded-call correlation identifier.
func CorrelationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("correlation_id", id)
}

// Elapsed records a duration in milliseconds under the key "elapsed_ms".
func Elapsed(d time.Duration) slog.Attr {
	return slog.Int64("elapsed_ms", d.Milliseconds())
}

// State records a connection state name under the key "state".
func State(state string) slog.Attr {
	if state == "" {
		return slog.Attr{}
	}
	return slog.String("state", state)
}
