package kuzu

import (
	"time"

	"go.uber.org/zap"
)

// Option defines functional options for KuzuDB configuration.
type Option func(*options)

// options contains configuration options for KuzuDB graph store.
type options struct {
	// Database path for file-based storage (empty for in-memory)
	databasePath string

	// Whether to use in-memory database
	inMemory bool

	// Whether to allow arbitrary caller supplied queries
	allowDangerousRequests bool

	// Query timeout
	timeout time.Duration

	// Buffer pool size for KuzuDB
	bufferPoolSize uint64

	// Maximum number of threads for query execution
	maxNumThreads uint64

	logger *zap.Logger
}

// applyDefaults sets default values for any unset options.
func applyDefaults(opts *options) {
	if opts.databasePath == "" && !opts.inMemory {
		opts.databasePath = "./kuzu_db"
	}

	if opts.timeout == 0 {
		opts.timeout = 30 * time.Second
	}

	if opts.bufferPoolSize == 0 {
		opts.bufferPoolSize = 256 * 1024 * 1024 // 256MB
	}

	if opts.maxNumThreads == 0 {
		opts.maxNumThreads = 4
	}

	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}
}

// WithDatabasePath sets the file path for the KuzuDB database.
// If not set, defaults to "./kuzu_db".
func WithDatabasePath(path string) Option {
	return func(opts *options) {
		opts.databasePath = path
		opts.inMemory = false
	}
}

// WithInMemory configures KuzuDB to run in-memory mode.
// This is useful for testing and one-off exports.
func WithInMemory(inMemory bool) Option {
	return func(opts *options) {
		opts.inMemory = inMemory
		if inMemory {
			opts.databasePath = ""
		}
	}
}

// WithAllowDangerousRequests acknowledges that Query runs caller supplied
// Cypher, including writes. Required to open the store.
func WithAllowDangerousRequests(allow bool) Option {
	return func(opts *options) {
		opts.allowDangerousRequests = allow
	}
}

// WithTimeout sets the default query execution timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.timeout = timeout
	}
}

// WithBufferPoolSize sets the buffer pool size for KuzuDB.
func WithBufferPoolSize(size uint64) Option {
	return func(opts *options) {
		opts.bufferPoolSize = size
	}
}

// WithMaxNumThreads sets the maximum number of threads for query execution.
func WithMaxNumThreads(threads uint64) Option {
	return func(opts *options) {
		opts.maxNumThreads = threads
	}
}

// WithLogger sets the logger used by the store.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
