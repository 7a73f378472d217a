package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/recoai/backend/internal/domain"
	"github.com/recoai/backend/internal/logging"
	"github.com/recoai/backend/internal/metrics"
)

// State is the connector's view of the database connection
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Config holds MongoDB connection settings
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	// WaitTimeout bounds how long a request waits for an in-flight connect
	WaitTimeout time.Duration
}

type connectFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// Connector owns the MongoDB client and connects lazily, so a cold process
// (or one whose connection dropped) can recover on the next request.
// Concurrent callers share a single in-flight attempt.
type Connector struct {
	uri            string
	database       string
	connectTimeout time.Duration
	waitTimeout    time.Duration
	connect        connectFunc

	mu     sync.Mutex
	state  State
	client *mongo.Client
	ready  chan struct{}
	err    error
}

// NewConnector creates a connector; no connection is made until Connect
func NewConnector(cfg Config) *Connector {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	waitTimeout := cfg.WaitTimeout
	if waitTimeout <= 0 {
		waitTimeout = 5 * time.Second
	}
	database := cfg.Database
	if database == "" {
		database = "recoai"
	}

	return &Connector{
		uri:            cfg.URI,
		database:       database,
		connectTimeout: connectTimeout,
		waitTimeout:    waitTimeout,
		connect:        dial,
	}
}

func dial(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// HasURI reports whether a connection string is configured
func (c *Connector) HasURI() bool {
	return c.uri != ""
}

// State returns the current connection state
func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect makes sure the client is connected.
//   - connected: returns nil immediately
//   - connecting: waits up to WaitTimeout for the in-flight attempt
//   - disconnected: starts a new attempt and waits for it
func (c *Connector) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateConnected:
		c.mu.Unlock()
		return nil
	case StateConnecting:
		ready := c.ready
		c.mu.Unlock()
		return c.wait(ctx, ready)
	}

	if c.uri == "" {
		c.mu.Unlock()
		return fmt.Errorf("%w: MongoDB URI is not configured", domain.ErrDatabaseUnavailable)
	}

	c.state = StateConnecting
	c.ready = make(chan struct{})
	ready := c.ready
	c.mu.Unlock()

	go c.attempt(ready)

	return c.wait(ctx, ready)
}

// attempt runs detached from the request so a cancelled caller does not
// abort the connect other callers are waiting on.
func (c *Connector) attempt(ready chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), c.connectTimeout)
	defer cancel()

	client, err := c.connect(ctx, c.uri)

	c.mu.Lock()
	if err != nil {
		c.state = StateDisconnected
		c.err = err
		metrics.DBConnectAttempts.WithLabelValues("failure").Inc()
		logging.Error().Err(err).Msg("MongoDB connection failed")
	} else {
		c.state = StateConnected
		c.client = client
		c.err = nil
		metrics.DBConnectAttempts.WithLabelValues("success").Inc()
		logging.Info().Str("database", c.database).Msg("MongoDB connected")
	}
	close(ready)
	c.mu.Unlock()
}

func (c *Connector) wait(ctx context.Context, ready chan struct{}) error {
	timer := time.NewTimer(c.waitTimeout)
	defer timer.Stop()

	select {
	case <-ready:
	case <-timer.C:
		return fmt.Errorf("%w: connection wait timeout", domain.ErrDatabaseUnavailable)
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		if c.err != nil {
			return fmt.Errorf("%w: %v", domain.ErrDatabaseUnavailable, c.err)
		}
		return domain.ErrDatabaseUnavailable
	}
	return nil
}

// Database returns the configured database handle, or ErrDatabaseUnavailable
// when not connected.
func (c *Connector) Database() (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected || c.client == nil {
		return nil, domain.ErrDatabaseUnavailable
	}
	return c.client.Database(c.database), nil
}

// Disconnect closes the client and resets the state
func (c *Connector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}

// Status returns the connection state name for health reporting
func (c *Connector) Status() string {
	return c.State().String()
}
