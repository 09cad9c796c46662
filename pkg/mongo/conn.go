package mongo

import (
	"context"
	"net/url"

	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Conn is an established session with the document store. The production
// implementation wraps *mongo.Client; tests substitute fakes through
// WithDialer.
type Conn interface {
	// Ping verifies the session is still usable.
	Ping(ctx context.Context) error
	// Disconnect closes the session. Safe to call on an already-closed session.
	Disconnect(ctx context.Context) error
	// Database returns a handle scoped to the named database. May return nil
	// for non-driver implementations.
	Database(name string) *mongo.Database
}

// Dialer establishes a raw connection. It must verify the connection is
// actually usable before returning it.
type Dialer func(ctx context.Context, cfg Config) (Conn, error)

type clientConn struct {
	client *mongo.Client
}

func (c *clientConn) Ping(ctx context.Context) error { return c.client.Ping(ctx, nil) }

func (c *clientConn) Disconnect(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil && err != mongo.ErrClientDisconnected {
		return err
	}
	return nil
}

func (c *clientConn) Database(name string) *mongo.Database { return c.client.Database(name) }

// driverDialer builds the production Dialer. onServerFailure receives
// out-of-band heartbeat failures from the driver's topology monitor; the
// Manager routes them through its serialized transition path.
func driverDialer(onServerFailure func(error)) Dialer {
	return func(ctx context.Context, cfg Config) (Conn, error) {
		opts := options.Client().
			ApplyURI(cfg.ConnectionURL).
			SetConnectTimeout(cfg.ConnectTimeout).
			SetMaxPoolSize(cfg.MaxPoolSize).
			SetMinPoolSize(cfg.MinPoolSize).
			SetMaxConnIdleTime(cfg.MaxConnIdleTime).
			SetRetryWrites(cfg.RetryWrites).
			SetRetryReads(cfg.RetryReads)

		if onServerFailure != nil {
			opts = opts.SetServerMonitor(&event.ServerMonitor{
				ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
					onServerFailure(e.Failure)
				},
			})
		}

		client, err := mongo.Connect(opts)
		if err != nil {
			return nil, err
		}
		// Connect alone does not guarantee reachability; verify with a ping
		// before handing the session out.
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		return &clientConn{client: client}, nil
	}
}

// hostFromURL extracts the host portion of a connection URL for diagnostics,
// leaving credentials behind. Returns "" when the URL cannot be parsed.
func hostFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
