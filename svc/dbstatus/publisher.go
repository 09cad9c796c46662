package dbstatus

import (
	"time"

	"github.com/Royalwole/sesame-sub001/pkg/mongo"
)

// Publisher is a read-only projection of the manager's connection record for
// external observers. It deliberately exposes no way to mutate state.
type Publisher struct {
	m *mongo.Manager
}

// NewPublisher wraps the manager.
func NewPublisher(m *mongo.Manager) *Publisher {
	return &Publisher{m: m}
}

// Status returns the current connection snapshot.
func (p *Publisher) Status() mongo.Record {
	return p.m.Status()
}

// StatusResponse is the wire shape of the status query.
type StatusResponse struct {
	IsConnected       bool       `json:"isConnected"`
	LastConnection    *time.Time `json:"lastConnection"`
	ReconnectAttempts int        `json:"reconnectAttempts"`
	Error             *string    `json:"error"`
	Host              *string    `json:"host"`
	Database          *string    `json:"database"`
}

// Response shapes the snapshot for the status query.
func (p *Publisher) Response() StatusResponse {
	return toStatusResponse(p.Status())
}

func toStatusResponse(rec mongo.Record) StatusResponse {
	resp := StatusResponse{
		IsConnected:       rec.State == mongo.StateConnected,
		LastConnection:    rec.LastConnectedAt,
		ReconnectAttempts: rec.ReconnectAttempts,
	}
	if rec.LastError != nil {
		msg := rec.LastError.Message
		resp.Error = &msg
	}
	if rec.Host != "" {
		host := rec.Host
		resp.Host = &host
	}
	if rec.Database != "" {
		db := rec.Database
		resp.Database = &db
	}
	return resp
}
