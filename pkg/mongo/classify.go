package mongo

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
)

// Kind is the closed set of failure categories the application reacts to.
type Kind string

const (
	KindUnreachable Kind = "unreachable"
	KindAuthFailed  Kind = "auth_failed"
	KindTimeout     Kind = "timeout"
	KindUnknown     Kind = "unknown"
)

// Classified is the normalized form of a raw failure: a kind, whether retrying
// the same operation may succeed without intervention, and the HTTP status a
// handler should report.
type Classified struct {
	Kind        Kind   `json:"kind"`
	Recoverable bool   `json:"recoverable"`
	StatusCode  int    `json:"statusCode"`
	Message     string `json:"message"`
}

// Connection-level signatures checked before the generic timeout match, so a
// dial that timed out reaching the host classifies as unreachable rather than
// as a plain timeout.
var unreachableSignatures = []string{
	"connection refused",
	"no reachable servers",
	"server selection error",
	"server selection timeout",
	"timed out connecting",
	"no such host",
	"network is unreachable",
	"host unreachable",
	"connection reset by peer",
}

var authSignatures = []string{
	"authentication failed",
	"authenticationfailed",
	"auth error",
	"sasl conversation",
	"unauthorized",
	"invalid credentials",
}

var timeoutSignatures = []string{
	"deadline exceeded",
	"timed out",
	"timeout",
	"operation canceled",
}

// Classify maps a raw error into a Classified value. It is total and
// deterministic: every input, nil included, yields exactly one of the four
// kinds, derived only from the error's text and category.
func Classify(err error) Classified {
	if err == nil {
		return Classified{Kind: KindUnknown, Recoverable: true, StatusCode: http.StatusInternalServerError}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	for _, sig := range unreachableSignatures {
		if strings.Contains(lower, sig) {
			return Classified{Kind: KindUnreachable, Recoverable: false, StatusCode: http.StatusServiceUnavailable, Message: msg}
		}
	}

	for _, sig := range authSignatures {
		if strings.Contains(lower, sig) {
			return Classified{Kind: KindAuthFailed, Recoverable: false, StatusCode: http.StatusUnauthorized, Message: msg}
		}
	}

	if isTimeout(err, lower) {
		return Classified{Kind: KindTimeout, Recoverable: true, StatusCode: http.StatusGatewayTimeout, Message: msg}
	}

	return Classified{Kind: KindUnknown, Recoverable: true, StatusCode: http.StatusInternalServerError, Message: msg}
}

func isTimeout(err error, lower string) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, sig := range timeoutSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
