package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Royalwole/sesame-sub001/pkg/logger"
	"github.com/Royalwole/sesame-sub001/pkg/requestid"
)

// PoolPolicy selects what a guarded call does with the connection once its
// work is done.
type PoolPolicy string

const (
	// PolicyPooled leaves the connection open for reuse by subsequent calls.
	PolicyPooled PoolPolicy = "pooled"
	// PolicyPerCall disconnects during finalization, connect-per-request style.
	PolicyPerCall PoolPolicy = "per_call"
)

// Failure is the only error type a guarded call can return. Every raw fault,
// acquisition failures, work errors and panics alike, is normalized into one
// before crossing the guard boundary.
type Failure struct {
	Kind          Kind   `json:"kind"`
	Recoverable   bool   `json:"recoverable"`
	StatusCode    int    `json:"statusCode"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("guarded call failed (%s): %s", f.Kind, f.Message)
}

func newFailure(c Classified, correlationID string) *Failure {
	return &Failure{
		Kind:          c.Kind,
		Recoverable:   c.Recoverable,
		StatusCode:    c.StatusCode,
		Message:       c.Message,
		CorrelationID: correlationID,
	}
}

// Guard wraps units of work that need the database. It guarantees a connection
// attempt on the work's behalf, bounds the whole call with a timeout, and runs
// a finalization step regardless of how the call ends.
type Guard struct {
	m       *Manager
	policy  PoolPolicy
	timeout time.Duration
	log     *slog.Logger
}

// GuardOption configures the Guard.
type GuardOption func(*Guard)

// WithGuardPolicy selects pooled or per-call connection handling.
func WithGuardPolicy(p PoolPolicy) GuardOption {
	return func(g *Guard) {
		if p == PolicyPerCall || p == PolicyPooled {
			g.policy = p
		}
	}
}

// WithGuardTimeout bounds a full guarded call, acquisition included.
func WithGuardTimeout(d time.Duration) GuardOption {
	if d <= 0 {
		panic("WithGuardTimeout: duration must be > 0")
	}
	return func(g *Guard) { g.timeout = d }
}

// WithGuardLogger supplies a logger. If omitted, logs are discarded.
func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGuard creates a Guard bound to the manager. Policy and timeout default
// from the manager's config.
func NewGuard(m *Manager, opts ...GuardOption) *Guard {
	g := &Guard{
		m:       m,
		policy:  PolicyPooled,
		timeout: m.cfg.RequestTimeout,
		log:     slog.New(slog.DiscardHandler),
	}
	if m.cfg.GuardPolicy == PolicyPerCall {
		g.policy = PolicyPerCall
	}
	if g.timeout <= 0 {
		g.timeout = 30 * time.Second
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Do executes op with a live connection. The work never runs when acquisition
// fails; any error or panic from the work is classified and returned as a
// *Failure. Finalization always runs, even when the caller abandoned the
// request, so the per-call disconnect policy is honored regardless.
func (g *Guard) Do(ctx context.Context, op func(ctx context.Context, conn Conn) error) (err error) {
	cid := requestid.FromContext(ctx)
	if cid == "" {
		cid = uuid.New().String()
		ctx = requestid.WithContext(ctx, cid)
	}

	start := time.Now()
	defer g.finalize(cid, start)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	conn, cerr := g.m.Connect(ctx, false)
	if cerr != nil {
		c := Classify(cerr)
		var ce *ConnectError
		if errors.As(cerr, &ce) {
			c = ce.Classified
		}
		g.log.WarnContext(ctx, "connection acquisition failed, work not invoked",
			logger.Component("mongo.guard"),
			logger.CorrelationID(cid),
			logger.Kind(string(c.Kind)),
		)
		return newFailure(c, cid)
	}

	defer func() {
		if r := recover(); r != nil {
			g.log.ErrorContext(ctx, "guarded work panicked",
				logger.Component("mongo.guard"),
				logger.CorrelationID(cid),
				slog.Any("panic", r),
			)
			err = newFailure(Classified{
				Kind:        KindUnknown,
				Recoverable: true,
				StatusCode:  http.StatusInternalServerError,
				Message:     fmt.Sprintf("panic: %v", r),
			}, cid)
		}
	}()

	if werr := op(ctx, conn); werr != nil {
		var f *Failure
		if errors.As(werr, &f) {
			return f
		}
		return newFailure(Classify(werr), cid)
	}
	return nil
}

// finalize runs once per guarded call, after success, failure and panic alike.
func (g *Guard) finalize(cid string, start time.Time) {
	elapsed := time.Since(start)
	if g.policy == PolicyPerCall {
		// Finalization must not inherit the caller's canceled context.
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := g.m.Disconnect(dctx); err != nil {
			g.log.WarnContext(dctx, "per-call disconnect failed",
				logger.Component("mongo.guard"),
				logger.CorrelationID(cid),
				logger.Error(err),
			)
		}
		cancel()
	}
	g.log.DebugContext(context.Background(), "guarded call finished",
		logger.Component("mongo.guard"),
		logger.CorrelationID(cid),
		logger.Elapsed(elapsed),
	)
}
