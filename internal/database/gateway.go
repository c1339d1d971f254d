// Package database owns the single process-wide connection to the vendor store.
//
// A Gateway is built once at startup and handed to every repository by
// reference. The underlying client is opened lazily on first use and reused for
// the lifetime of the process.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Driver identifies the store backend selected by the connection string scheme.
type Driver string

const (
	DriverMongo    Driver = "mongo"
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "vendors"

var (
	// ErrMissingURI is returned when no connection string is configured.
	ErrMissingURI = errors.New("database: connection string is required")

	// ErrUnsupportedScheme is returned for connection strings no driver understands.
	ErrUnsupportedScheme = errors.New("database: unsupported connection scheme")

	// ErrWrongDriver is returned when asking for a handle the active driver does not provide.
	ErrWrongDriver = errors.New("database: handle not provided by active driver")
)

// Config holds what the gateway needs to reach the store.
type Config struct {
	URI      string
	Database string
}

// Gateway holds the one reusable connection handle to the store.
type Gateway struct {
	cfg    Config
	driver Driver

	once   sync.Once
	err    error
	client *mongo.Client
	db     *sql.DB
}

// New validates cfg and returns a gateway that has not connected yet.
func New(cfg Config) (*Gateway, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, ErrMissingURI
	}
	driver, err := DriverFor(cfg.URI)
	if err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	return &Gateway{cfg: cfg, driver: driver}, nil
}

// NewSQL wraps an already open postgres pool. The gateway treats it as its
// single connection and never opens another.
func NewSQL(db *sql.DB) *Gateway {
	g := &Gateway{driver: DriverPostgres, db: db}
	g.once.Do(func() {})
	return g
}

// DriverFor maps a connection string to the backend that serves it.
func DriverFor(uri string) (Driver, error) {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, redact(uri))
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "memory":
		return DriverMemory, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
}

// Driver reports the backend chosen for this gateway.
func (g *Gateway) Driver() Driver {
	return g.driver
}

// Connect opens the underlying client exactly once. Every later call, including
// concurrent first calls, observes the outcome of that single attempt.
func (g *Gateway) Connect() error {
	g.once.Do(func() {
		g.err = g.open()
	})
	return g.err
}

func (g *Gateway) open() error {
	switch g.driver {
	case DriverMongo:
		client, err := mongo.Connect(options.Client().ApplyURI(g.cfg.URI).SetAppName("vendors"))
		if err != nil {
			return fmt.Errorf("database: connect mongo: %w", err)
		}
		g.client = client
	case DriverPostgres:
		db, err := sql.Open("postgres", g.cfg.URI)
		if err != nil {
			return fmt.Errorf("database: open postgres: %w", err)
		}
		g.db = db
	}
	return nil
}

// Mongo returns the configured mongo database, connecting on first use.
func (g *Gateway) Mongo() (*mongo.Database, error) {
	if g.driver != DriverMongo {
		return nil, fmt.Errorf("%w: mongo (active: %s)", ErrWrongDriver, g.driver)
	}
	if err := g.Connect(); err != nil {
		return nil, err
	}
	return g.client.Database(g.cfg.Database), nil
}

// SQL returns the postgres pool, connecting on first use.
func (g *Gateway) SQL() (*sql.DB, error) {
	if g.driver != DriverPostgres {
		return nil, fmt.Errorf("%w: postgres (active: %s)", ErrWrongDriver, g.driver)
	}
	if err := g.Connect(); err != nil {
		return nil, err
	}
	return g.db, nil
}

// Ping verifies the store is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.Connect(); err != nil {
		return err
	}
	switch g.driver {
	case DriverMongo:
		if err := g.client.Ping(ctx, readpref.Primary()); err != nil {
			return fmt.Errorf("database: ping mongo: %w", err)
		}
	case DriverPostgres:
		if err := g.db.PingContext(ctx); err != nil {
			return fmt.Errorf("database: ping postgres: %w", err)
		}
	}
	return nil
}

// Close releases the connection. It is meant for process shutdown only.
func (g *Gateway) Close(ctx context.Context) error {
	if g.client != nil {
		return g.client.Disconnect(ctx)
	}
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

// redact hides everything but the first few characters of a malformed URI,
// which may carry credentials.
func redact(uri string) string {
	if len(uri) <= 8 {
		return uri
	}
	return uri[:8] + "..."
}
