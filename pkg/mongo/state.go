package mongo

import "time"

// State is the connection lifecycle state. Exactly one value holds at any
// instant; all transitions are serialized by the Manager.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
)

// Record is a snapshot of the process-wide connection record. Only the Manager
// mutates the underlying record; everyone else reads copies returned by
// Manager.Status.
type Record struct {
	State             State       `json:"state"`
	LastConnectedAt   *time.Time  `json:"lastConnectedAt"`
	LastError         *Classified `json:"lastError"`
	ReconnectAttempts int         `json:"reconnectAttempts"`
	Host              string      `json:"host"`     // diagnostic only
	Database          string      `json:"database"` // diagnostic only
}

// snapshot deep-copies the record so callers cannot alias the Manager's
// internal pointers.
func (r Record) snapshot() Record {
	out := r
	if r.LastConnectedAt != nil {
		t := *r.LastConnectedAt
		out.LastConnectedAt = &t
	}
	if r.LastError != nil {
		c := *r.LastError
		out.LastError = &c
	}
	return out
}
