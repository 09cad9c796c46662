package mongo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Royalwole/sesame-sub001/pkg/logger"
)

// Result is the outcome of a single health check. Only the most recent one is
// retained, for display on the status surface.
type Result struct {
	OK        bool      `json:"ok"`
	CheckedAt time.Time `json:"checkedAt"`
	Detail    string    `json:"detail,omitempty"`
}

// Checker probes the shared connection. A probe that finds the connection down
// attempts to re-establish it; a probe that fails against an established
// connection forces a reconnect so the next caller starts from a clean slate.
type Checker struct {
	m            *Manager
	probeTimeout time.Duration
	interval     time.Duration
	grace        time.Duration
	log          *slog.Logger

	mu   sync.Mutex
	last *Result
}

// CheckerOption configures the Checker.
type CheckerOption func(*Checker)

// WithProbeTimeout bounds the liveness ping. Defaults to the config's
// ProbeTimeout.
func WithProbeTimeout(d time.Duration) CheckerOption {
	if d <= 0 {
		panic("WithProbeTimeout: duration must be > 0")
	}
	return func(c *Checker) { c.probeTimeout = d }
}

// WithInterval sets the period between background probes.
func WithInterval(d time.Duration) CheckerOption {
	if d <= 0 {
		panic("WithInterval: duration must be > 0")
	}
	return func(c *Checker) { c.interval = d }
}

// WithGrace delays the first background probe after startup so it does not
// compete with the first real request for the initial connection.
func WithGrace(d time.Duration) CheckerOption {
	return func(c *Checker) { c.grace = d }
}

// WithCheckerLogger supplies a logger. If omitted, logs are discarded.
func WithCheckerLogger(l *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if l != nil {
			c.log = l
		}
	}
}

// NewChecker creates a Checker bound to the manager. Probe timeout, interval
// and grace default from the manager's config.
func NewChecker(m *Manager, opts ...CheckerOption) *Checker {
	c := &Checker{
		m:            m,
		probeTimeout: m.cfg.ProbeTimeout,
		interval:     30 * time.Second,
		grace:        m.cfg.HealthGrace,
		log:          slog.New(slog.DiscardHandler),
	}
	if c.probeTimeout <= 0 {
		c.probeTimeout = 4 * time.Second
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check performs one health check and caches its result. When the connection
// is not established it attempts a forced connect; when it is, it pings with
// the probe timeout and forces a reconnect on failure.
func (c *Checker) Check(ctx context.Context) Result {
	res := c.check(ctx)

	c.mu.Lock()
	c.last = &res
	c.mu.Unlock()

	return res
}

func (c *Checker) check(ctx context.Context) Result {
	now := time.Now().UTC()

	if c.m.Status().State != StateConnected {
		if _, err := c.m.Connect(ctx, true); err != nil {
			return Result{OK: false, CheckedAt: now, Detail: Classify(err).Message}
		}
		return Result{OK: true, CheckedAt: now}
	}

	conn := c.m.Conn()
	if conn == nil {
		// Lost between the snapshot and here; report and let the next probe
		// re-establish.
		return Result{OK: false, CheckedAt: now, Detail: ErrNotConnected.Error()}
	}

	pctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	err := conn.Ping(pctx)
	cancel()
	if err != nil {
		c.log.WarnContext(ctx, "liveness probe failed, forcing reconnect",
			logger.Component("mongo.health"), logger.Error(err))
		if _, rerr := c.m.ForceReconnect(ctx); rerr != nil {
			c.log.ErrorContext(ctx, "forced reconnect failed",
				logger.Component("mongo.health"), logger.Error(rerr))
		}
		return Result{OK: false, CheckedAt: now, Detail: Classify(err).Message}
	}

	return Result{OK: true, CheckedAt: now}
}

// Last returns the most recent check result, or nil before the first check.
func (c *Checker) Last() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	out := *c.last
	return &out
}

// Run probes periodically until ctx is canceled, starting after the grace
// delay. Blocks; run it in its own goroutine.
func (c *Checker) Run(ctx context.Context) {
	if c.grace > 0 {
		select {
		case <-time.After(c.grace):
		case <-ctx.Done():
			return
		}
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Check(ctx)
	for {
		select {
		case <-ticker.C:
			c.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
