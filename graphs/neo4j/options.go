package neo4j

import (
	"time"

	"go.uber.org/zap"
)

const (
	// FetchAll asks the server to stream every record of a result at once.
	FetchAll = -1

	defaultFetchSize          = 500
	defaultMaxConnections     = 10
	defaultAcquisitionTimeout = time.Minute
)

// Option is a function type for configuring a Neo4j graph store.
type Option func(*options)

// options contains the configuration for the Neo4j graph store.
type options struct {
	connectionURL      string
	username           string
	password           string
	database           string
	fetchSize          int
	maxConnections     int
	acquisitionTimeout time.Duration
	logger             *zap.Logger
}

// defaultOptions returns the default options for Neo4j graph store.
func defaultOptions() *options {
	return &options{
		connectionURL:      "bolt://127.0.0.1:7687",
		username:           "neo4j",
		database:           "meetups",
		fetchSize:          defaultFetchSize,
		maxConnections:     defaultMaxConnections,
		acquisitionTimeout: defaultAcquisitionTimeout,
		logger:             zap.NewNop(),
	}
}

// WithConnectionURL sets the Neo4j connection URL.
func WithConnectionURL(url string) Option {
	return func(o *options) {
		o.connectionURL = url
	}
}

// WithCredentials sets the Neo4j authentication credentials.
func WithCredentials(username, password string) Option {
	return func(o *options) {
		o.username = username
		o.password = password
	}
}

// WithDatabase sets the Neo4j database name.
func WithDatabase(database string) Option {
	return func(o *options) {
		o.database = database
	}
}

// WithFetchSize sets how many records are pulled from the server per batch.
// Use FetchAll to disable batching.
func WithFetchSize(size int) Option {
	return func(o *options) {
		o.fetchSize = size
	}
}

// WithMaxConnections bounds the driver connection pool. Sessions wait for a
// free connection once the pool is exhausted.
func WithMaxConnections(n int) Option {
	return func(o *options) {
		o.maxConnections = n
	}
}

// WithConnectionAcquisitionTimeout sets how long a session waits for a pooled
// connection before failing.
func WithConnectionAcquisitionTimeout(d time.Duration) Option {
	return func(o *options) {
		o.acquisitionTimeout = d
	}
}

// WithLogger sets the logger used by the store.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
