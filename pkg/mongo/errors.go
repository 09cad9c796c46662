package mongo

import (
	"errors"
	"fmt"
)

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrDisconnectFailed       = errors.New("failed to disconnect from mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrNotConnected           = errors.New("no established mongo connection")
	ErrManagerClosed          = errors.New("connection manager is closed")
	ErrAttemptSuperseded      = errors.New("connect attempt superseded by a newer state transition")
)

// ConnectError reports an exhausted connect attempt sequence. It carries the
// classification of the last raw failure so callers can map it to a response
// without re-deriving the kind.
type ConnectError struct {
	Classified Classified
	Attempts   int
	Err        error // last raw attempt error, may be nil
}

func (e *ConnectError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("%s after %d attempts: %s", ErrFailedToConnectToMongo, e.Attempts, e.Classified.Message)
	}
	return fmt.Sprintf("%s: %s", ErrFailedToConnectToMongo, e.Classified.Message)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Is reports ErrFailedToConnectToMongo so errors.Is works without unwrapping
// to the raw driver error.
func (e *ConnectError) Is(target error) bool { return target == ErrFailedToConnectToMongo }
