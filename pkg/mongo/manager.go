package mongo

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Royalwole/sesame-sub001/pkg/logger"
	"github.com/Royalwole/sesame-sub001/pkg/retry"
)

// Manager owns the single shared connection to the document store. All state
// transitions funnel through its methods under one mutex; the raw dialing
// itself happens outside the lock so Status never blocks on I/O.
//
// Concurrent Connect calls that find the connection down coalesce onto a
// single attempt sequence: the first caller dials, the rest wait on its
// outcome. An epoch counter invalidates attempt outcomes that land after a
// newer transition, so a slow success can never resurrect a connection that
// was since torn down.
type Manager struct {
	cfg    Config
	policy retry.Policy
	dial   Dialer
	log    *slog.Logger

	mu       sync.Mutex
	conn     Conn
	record   Record
	inflight chan struct{} // non-nil while a connect attempt sequence is running
	epoch    uint64
	closed   bool
}

// Option configures the Manager.
type Option func(*Manager)

// WithDialer replaces the production dialer. Used by tests and by callers
// that need custom driver options.
func WithDialer(d Dialer) Option {
	if d == nil {
		panic("WithDialer: nil dialer")
	}
	return func(m *Manager) { m.dial = d }
}

// WithLogger supplies a logger. If omitted, logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithRetryPolicy overrides the backoff schedule derived from the config.
func WithRetryPolicy(p retry.Policy) Option {
	return func(m *Manager) { m.policy = p }
}

// NewManager creates a Manager in the Disconnected state. No I/O happens until
// the first Connect.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		policy: cfg.RetryPolicy(),
		log:    slog.New(slog.DiscardHandler),
		record: Record{
			State:    StateDisconnected,
			Host:     hostFromURL(cfg.ConnectionURL),
			Database: cfg.Database,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.dial == nil {
		m.dial = driverDialer(m.noteServerFailure)
	}
	return m
}

// Connect returns a live connection, establishing one if necessary. When the
// state is Connected and force is false the existing handle is returned with
// no I/O. Otherwise the caller either becomes the dialing owner or waits for
// the owner's outcome; exactly one raw attempt sequence is in flight at a
// time.
func (m *Manager) Connect(ctx context.Context, force bool) (Conn, error) {
	m.mu.Lock()
	for {
		if m.closed {
			m.mu.Unlock()
			return nil, ErrManagerClosed
		}
		if m.inflight == nil {
			break
		}
		ch := m.inflight
		m.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, &ConnectError{Classified: Classify(ctx.Err()), Err: ctx.Err()}
		}
		m.mu.Lock()
	}

	if m.record.State == StateConnected && m.conn != nil && !force {
		conn := m.conn
		m.mu.Unlock()
		return conn, nil
	}

	// Become the dialing owner.
	stale := m.conn
	m.conn = nil
	m.record.State = StateConnecting
	m.epoch++
	epoch := m.epoch
	ch := make(chan struct{})
	m.inflight = ch
	m.mu.Unlock()

	if stale != nil {
		_ = stale.Disconnect(context.WithoutCancel(ctx))
	}

	conn, err := m.attemptSequence(ctx, epoch)

	m.mu.Lock()
	if m.inflight == ch {
		m.inflight = nil
	}
	m.mu.Unlock()
	close(ch)

	if err != nil {
		return nil, err
	}
	return conn, nil
}

// attemptSequence runs up to the policy's attempt budget of raw dials with
// backoff between failures. Non-recoverable kinds still consume the full
// budget before being reported; recoverability only affects how the failure
// is presented to the caller, never the loop itself.
func (m *Manager) attemptSequence(ctx context.Context, epoch uint64) (Conn, error) {
	attempts := m.policy.Attempts()
	var last Classified
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		conn, err := m.dialOnce(ctx)
		if err == nil {
			if !m.commit(epoch, conn) {
				_ = conn.Disconnect(context.WithoutCancel(ctx))
				return nil, &ConnectError{Classified: Classify(ErrAttemptSuperseded), Err: ErrAttemptSuperseded}
			}
			m.log.InfoContext(ctx, "connected to document store",
				logger.Component("mongo"),
				slog.String("host", hostFromURL(m.cfg.ConnectionURL)),
				slog.Int("attempt", attempt+1),
			)
			return conn, nil
		}

		last = Classify(err)
		lastErr = err
		m.noteAttemptFailure(epoch, last)
		m.log.WarnContext(ctx, "connect attempt failed",
			logger.Component("mongo"),
			logger.Kind(string(last.Kind)),
			slog.Int("attempt", attempt+1),
			logger.Error(err),
		)

		if attempt == attempts-1 {
			break
		}
		select {
		case <-time.After(m.policy.Delay(attempt)):
		case <-ctx.Done():
			last = Classify(ctx.Err())
			m.fail(epoch, last)
			return nil, &ConnectError{Classified: last, Attempts: attempt + 1, Err: ctx.Err()}
		}
	}

	m.fail(epoch, last)
	return nil, &ConnectError{Classified: last, Attempts: attempts, Err: lastErr}
}

// dialOnce races a single raw dial against the connect timeout. A success that
// arrives after the timer fired is closed and discarded, never surfaced.
func (m *Manager) dialOnce(ctx context.Context) (Conn, error) {
	dctx, cancel := context.WithTimeout(ctx, m.connectTimeout())
	defer cancel()

	type outcome struct {
		conn Conn
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		conn, err := m.dial(dctx, m.cfg)
		ch <- outcome{conn: conn, err: err}
	}()

	select {
	case out := <-ch:
		return out.conn, out.err
	case <-dctx.Done():
		// Late completion: the attempt already failed from the caller's point
		// of view, so a connection that lands now is torn down.
		go func() {
			if out := <-ch; out.conn != nil {
				_ = out.conn.Disconnect(context.Background())
			}
		}()
		return nil, dctx.Err()
	}
}

func (m *Manager) connectTimeout() time.Duration {
	if m.cfg.ConnectTimeout > 0 {
		return m.cfg.ConnectTimeout
	}
	return 10 * time.Second
}

// commit installs a freshly dialed connection. Returns false when the epoch
// moved on while dialing, in which case the caller must discard the handle.
func (m *Manager) commit(epoch uint64, conn Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.epoch != epoch {
		return false
	}
	now := time.Now().UTC()
	m.conn = conn
	m.record.State = StateConnected
	m.record.LastConnectedAt = &now
	m.record.LastError = nil
	m.record.ReconnectAttempts = 0
	return true
}

func (m *Manager) noteAttemptFailure(epoch uint64, c Classified) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return
	}
	m.record.ReconnectAttempts++
	m.record.LastError = &c
}

func (m *Manager) fail(epoch uint64, c Classified) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return
	}
	m.record.State = StateError
	m.record.LastError = &c
}

// noteServerFailure handles out-of-band heartbeat failures reported by the
// driver's topology monitor. It only downgrades a Connected record; in-flight
// attempt sequences are left to reach their own verdict.
func (m *Manager) noteServerFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record.State != StateConnected {
		return
	}
	c := Classify(err)
	m.record.State = StateError
	m.record.LastError = &c
}

// Disconnect closes the connection if one exists. Idempotent: disconnecting an
// already-disconnected manager is a no-op that returns nil.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.epoch++
	m.record.State = StateDisconnected
	m.mu.Unlock()

	if conn == nil {
		return nil
	}
	if err := conn.Disconnect(ctx); err != nil {
		return errors.Join(ErrDisconnectFailed, err)
	}
	return nil
}

// ForceReconnect tears the connection down and establishes a fresh one. Used
// by the health checker and by the administrative reconnect action.
func (m *Manager) ForceReconnect(ctx context.Context) (Conn, error) {
	if err := m.Disconnect(ctx); err != nil {
		m.log.WarnContext(ctx, "disconnect before forced reconnect failed",
			logger.Component("mongo"), logger.Error(err))
	}
	return m.Connect(ctx, true)
}

// Status returns a snapshot of the connection record. It never blocks on I/O;
// the mutex is held only for the copy.
func (m *Manager) Status() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record.snapshot()
}

// Conn returns the current handle, or nil when not connected. Non-blocking.
func (m *Manager) Conn() Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record.State != StateConnected {
		return nil
	}
	return m.conn
}

// Close disconnects and marks the manager unusable. Further Connect calls
// return ErrManagerClosed. Intended as a process shutdown hook.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()
	return m.Disconnect(ctx)
}
