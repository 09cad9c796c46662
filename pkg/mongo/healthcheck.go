package mongo

import (
	"context"
	"errors"
)

// Healthcheck returns a probe function suitable for Kubernetes readiness
// probes or HTTP health endpoints.
//
// The probe performs a lightweight Ping against the manager's current
// connection. It reports failure when no connection is established rather
// than dialing one, so wiring it into a readiness endpoint never triggers
// connect storms.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		conn := m.Conn()
		if conn == nil {
			return errors.Join(ErrHealthcheckFailed, ErrNotConnected)
		}
		if err := conn.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
