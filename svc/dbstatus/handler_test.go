package dbstatus_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Royalwole/sesame-sub001/pkg/mongo"
	"github.com/Royalwole/sesame-sub001/svc/dbstatus"
)

type fakeConn struct {
	mu      sync.Mutex
	pingErr error
}

func (c *fakeConn) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pingErr
}

func (c *fakeConn) Disconnect(ctx context.Context) error    { return nil }
func (c *fakeConn) Database(name string) *mongodrv.Database { return nil }

func testManager(t *testing.T, dialErr error) *mongo.Manager {
	t.Helper()
	cfg := mongo.Config{
		ConnectionURL:  "mongodb://db.internal:27017",
		Database:       "listings",
		ConnectTimeout: 200 * time.Millisecond,
		ProbeTimeout:   100 * time.Millisecond,
		RetryAttempts:  1,
		RetryBaseDelay: time.Millisecond,
		RetryMaxDelay:  2 * time.Millisecond,
	}
	dial := func(ctx context.Context, c mongo.Config) (mongo.Conn, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return &fakeConn{}, nil
	}
	return mongo.NewManager(cfg, mongo.WithDialer(dial))
}

func newServer(t *testing.T, m *mongo.Manager, gate dbstatus.Gate) *httptest.Server {
	t.Helper()
	checker := mongo.NewChecker(m)
	srv := httptest.NewServer(dbstatus.Routes(m, checker, gate, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestStatusEndpointDisconnected(t *testing.T) {
	t.Parallel()

	m := testManager(t, nil)
	srv := newServer(t, m, nil)

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dbstatus.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.IsConnected)
	assert.Nil(t, body.LastConnection)
	assert.Zero(t, body.ReconnectAttempts)
	assert.Nil(t, body.Error)
	require.NotNil(t, body.Host)
	assert.Equal(t, "db.internal:27017", *body.Host)
	require.NotNil(t, body.Database)
	assert.Equal(t, "listings", *body.Database)
}

func TestStatusEndpointConnected(t *testing.T) {
	t.Parallel()

	m := testManager(t, nil)
	_, err := m.Connect(context.Background(), false)
	require.NoError(t, err)
	srv := newServer(t, m, nil)

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dbstatus.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.IsConnected)
	assert.NotNil(t, body.LastConnection)
}

func TestHealthEndpointHealthy(t *testing.T) {
	t.Parallel()

	m := testManager(t, nil)
	srv := newServer(t, m, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dbstatus.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Healthy)
	assert.True(t, body.Result.OK)
	assert.Equal(t, mongo.StateConnected, body.Connection.State)
}

func TestHealthEndpointUnhealthy(t *testing.T) {
	t.Parallel()

	m := testManager(t, errors.New("connection refused"))
	srv := newServer(t, m, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body dbstatus.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Healthy)
	assert.NotEmpty(t, body.Result.Detail)
	assert.Equal(t, mongo.StateError, body.Connection.State)
	require.NotNil(t, body.Connection.LastError)
	assert.Equal(t, mongo.KindUnreachable, body.Connection.LastError.Kind)
}

func TestReconnectEndpoint(t *testing.T) {
	t.Parallel()

	m := testManager(t, nil)
	srv := newServer(t, m, nil)

	resp, err := http.Post(srv.URL+"/reconnect", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Reconnected bool                    `json:"reconnected"`
		Status      dbstatus.StatusResponse `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Reconnected)
	assert.True(t, body.Status.IsConnected)
}

func TestReconnectEndpointFailure(t *testing.T) {
	t.Parallel()

	m := testManager(t, errors.New("connection refused"))
	srv := newServer(t, m, nil)

	resp, err := http.Post(srv.URL+"/reconnect", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestReconnectEndpointGated(t *testing.T) {
	t.Parallel()

	gate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer admin" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	m := testManager(t, nil)
	srv := newServer(t, m, gate)

	// The gate applies to the reconnect action only.
	resp, err := http.Post(srv.URL+"/reconnect", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/reconnect", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer admin")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
