package mongo

import (
	"time"

	"github.com/Royalwole/sesame-sub001/pkg/environment"
	"github.com/Royalwole/sesame-sub001/pkg/retry"
)

// Config represents the configuration for the document store connection.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL,required"`                         // ConnectionURL is the URL of the database.
	Database        string        `env:"MONGODB_DATABASE" envDefault:"sesame"`         // Database is the name of the database used by the application.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`     // ConnectTimeout bounds a single raw connect attempt, ping included.
	ProbeTimeout    time.Duration `env:"MONGODB_PROBE_TIMEOUT" envDefault:"4s"`        // ProbeTimeout bounds the liveness ping issued by the health checker.
	RequestTimeout  time.Duration `env:"MONGODB_REQUEST_TIMEOUT" envDefault:"30s"`     // RequestTimeout bounds a full guarded call, acquisition and work included.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`       // MaxPoolSize is the maximum number of connections in the driver pool.
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`         // MinPoolSize is the minimum number of connections in the driver pool.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"` // MaxConnIdleTime is the maximum time a pooled connection can remain idle.
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`       // RetryWrites specifies whether to retry write operations.
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`        // RetryReads specifies whether to retry read operations.
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`        // RetryAttempts is the number of raw connect attempts before giving up.
	RetryBaseDelay  time.Duration `env:"MONGODB_RETRY_BASE_DELAY" envDefault:"1s"`     // RetryBaseDelay is the backoff delay before the first retry.
	RetryMaxDelay   time.Duration `env:"MONGODB_RETRY_MAX_DELAY" envDefault:"8s"`      // RetryMaxDelay caps the backoff delay between attempts.
	HealthInterval  time.Duration `env:"MONGODB_HEALTH_INTERVAL"`                      // HealthInterval is the period between background probes; zero derives it from the deployment environment.
	HealthGrace     time.Duration `env:"MONGODB_HEALTH_GRACE" envDefault:"10s"`        // HealthGrace delays the first background probe so it does not race the first request for the initial connection.
	GuardPolicy     PoolPolicy    `env:"MONGODB_GUARD_POLICY" envDefault:"pooled"`     // GuardPolicy selects whether guarded calls keep the connection open or disconnect after each call.
}

// RetryPolicy returns the backoff schedule derived from the retry fields.
func (c Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		Base:        c.RetryBaseDelay,
		Cap:         c.RetryMaxDelay,
		MaxAttempts: c.RetryAttempts,
	}
}

// HealthCheckInterval resolves the background probe period. An explicit
// HealthInterval wins; otherwise development probes often and production
// rarely, so a misbehaving store surfaces quickly on a laptop without adding
// load in production.
func (c Config) HealthCheckInterval(env environment.Environment) time.Duration {
	if c.HealthInterval > 0 {
		return c.HealthInterval
	}
	switch env {
	case environment.Production:
		return 5 * time.Minute
	case environment.Staging:
		return time.Minute
	default:
		return 30 * time.Second
	}
}
