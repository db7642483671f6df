package graphs

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrQueryFailed wraps every connection or query failure reported by a store.
	ErrQueryFailed = errors.New("graph store query failed")
	// ErrTooManyRows is returned when a query yields more rows than allowed by WithMaxRows.
	ErrTooManyRows = errors.New("query returned too many rows")
)

// GraphStore defines the interface for the property graph holding people and
// the MET relationships between them.
type GraphStore interface {
	// Query executes a query against the graph store and returns the fully
	// drained result.
	Query(ctx context.Context, query string, params map[string]any, options ...Option) (*Result, error)

	// MergeGroup merges every unordered pair of the given names as MET
	// relationships. Names are matched case-insensitively and repeated merges
	// leave the graph unchanged.
	MergeGroup(ctx context.Context, names []string) error

	// DeleteAll removes every node and relationship from the store.
	DeleteAll(ctx context.Context) error

	// HealthCheck verifies that the store answers queries.
	HealthCheck(ctx context.Context) error

	// Close closes the graph store connection.
	Close() error
}

// Option defines functional options for graph store queries.
type Option func(*Options)

// Options contains configuration options for graph store queries.
type Options struct {
	// Timeout bounds the execution time of a single query. Zero means the
	// store default.
	Timeout time.Duration
	// MaxRows caps the number of rows a query may return. Zero means no cap.
	MaxRows int
}

// NewOptions create a new Options instance with default values.
func NewOptions(options ...Option) *Options {
	opts := &Options{
		Timeout: 0, // No timeout by default
		MaxRows: 0,
	}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

// WithTimeout sets the query timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithMaxRows sets the maximum number of rows a query may return.
func WithMaxRows(n int) Option {
	return func(opts *Options) {
		opts.MaxRows = n
	}
}
