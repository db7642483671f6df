package kuzu

import (
	"context"
	"fmt"
	"sync"

	"github.com/kuzudb/go-kuzu"
	"go.uber.org/zap"

	"github.com/meetupgraph/meetupgraph/graphs"
)

var (
	ErrConnectionNotInitialized  = fmt.Errorf("kuzu connection not initialized")
	ErrDangerousRequestsDisabled = fmt.Errorf("dangerous requests are disabled - enable with WithAllowDangerousRequests(true)")
	ErrDatabaseCreationFailed    = fmt.Errorf("failed to create kuzu database")
	ErrConnectionCreationFailed  = fmt.Errorf("failed to create kuzu connection")
)

// Kuzu implements the graphs.GraphStore interface for KuzuDB
type Kuzu struct {
	// KuzuDB database instance
	database *kuzu.Database

	// KuzuDB connection for queries
	connection *kuzu.Connection

	// Configuration options
	options *options

	// mu serializes every use of connection. A running transaction holds it
	// until commit or rollback.
	mu sync.Mutex
}

var _ graphs.GraphStore = (*Kuzu)(nil)

// NewKuzu opens a KuzuDB graph store and creates the Person and MET tables
// when they do not exist yet.
func NewKuzu(opts ...Option) (*Kuzu, error) {
	options := &options{}

	for _, opt := range opts {
		opt(options)
	}

	applyDefaults(options)

	if !options.allowDangerousRequests {
		return nil, ErrDangerousRequestsDisabled
	}

	k := &Kuzu{
		options: options,
	}

	if err := k.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to kuzu: %w", err)
	}

	if err := k.ensureSchema(context.Background()); err != nil {
		k.Close()
		return nil, err
	}

	options.logger.Info("opened kuzu database",
		zap.Bool("in_memory", options.inMemory),
		zap.String("path", options.databasePath))

	return k, nil
}

// connect initializes the KuzuDB database and connection
func (k *Kuzu) connect() error {
	var err error

	systemConfig := kuzu.DefaultSystemConfig()
	systemConfig.BufferPoolSize = k.options.bufferPoolSize
	systemConfig.MaxNumThreads = k.options.maxNumThreads

	if k.options.inMemory {
		k.database, err = kuzu.OpenInMemoryDatabase(systemConfig)
	} else {
		k.database, err = kuzu.OpenDatabase(k.options.databasePath, systemConfig)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseCreationFailed, err)
	}

	k.connection, err = kuzu.OpenConnection(k.database)
	if err != nil {
		k.database.Close()
		k.database = nil
		return fmt.Errorf("%w: %v", ErrConnectionCreationFailed, err)
	}

	k.connection.SetMaxNumThreads(k.options.maxNumThreads)

	if k.options.timeout > 0 {
		k.connection.SetTimeout(uint64(k.options.timeout.Milliseconds()))
	}

	return nil
}

// Close closes the KuzuDB connection and database
func (k *Kuzu) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.connection != nil {
		k.connection.Close()
		k.connection = nil
	}

	if k.database != nil {
		k.database.Close()
		k.database = nil
	}

	return nil
}

// IsConnected checks if the KuzuDB connection is active
func (k *Kuzu) IsConnected() bool {
	return k.connection != nil && k.database != nil
}

// HealthCheck runs a trivial query and verifies the schema is in place.
func (k *Kuzu) HealthCheck(ctx context.Context) error {
	if _, err := k.Query(ctx, "RETURN 1 AS health_check", nil); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	return k.ValidateSchema(ctx)
}

// Query executes a Cypher query against the KuzuDB database and drains the
// result. Parameters are bound through prepared statements.
func (k *Kuzu) Query(
	ctx context.Context,
	query string,
	params map[string]any,
	options ...graphs.Option,
) (*graphs.Result, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.query(ctx, query, params, graphs.NewOptions(options...))
}

// DeleteAll removes every person and relationship.
func (k *Kuzu) DeleteAll(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := k.query(ctx, "MATCH (n) DETACH DELETE n", nil, graphs.NewOptions()); err != nil {
		return err
	}

	k.options.logger.Info("deleted all nodes")
	return nil
}

// query must be called with k.mu held.
func (k *Kuzu) query(
	ctx context.Context,
	query string,
	params map[string]any,
	opts *graphs.Options,
) (*graphs.Result, error) {
	if !k.IsConnected() {
		return nil, ErrConnectionNotInitialized
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", graphs.ErrQueryFailed, err)
	}

	done := make(chan struct{})
	var result *kuzu.QueryResult
	var err error

	go func() {
		defer close(done)

		if len(params) > 0 {
			result, err = k.executeWithParameters(query, params)
		} else {
			result, err = k.connection.Query(query)
		}
	}()

	select {
	case <-ctx.Done():
		k.connection.Interrupt()
		<-done
		if err == nil && result != nil {
			result.Close()
		}
		return nil, fmt.Errorf("%w: %w", graphs.ErrQueryFailed, ctx.Err())
	case <-done:
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", graphs.ErrQueryFailed, err)
	}
	defer result.Close()

	out, err := k.convertQueryResult(ctx, result, opts.MaxRows)
	if err != nil {
		return nil, err
	}

	k.options.logger.Debug("query completed",
		zap.Int("rows", len(out.Rows)),
		zap.Strings("keys", out.Keys))

	return out, nil
}

// executeWithParameters executes a query using prepared statements with parameters
func (k *Kuzu) executeWithParameters(query string, params map[string]any) (*kuzu.QueryResult, error) {
	stmt, err := k.connection.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	result, err := k.connection.Execute(stmt, params)
	if err != nil {
		return nil, fmt.Errorf("failed to execute prepared statement: %w", err)
	}

	return result, nil
}

// convertQueryResult drains a KuzuDB query result into rows, keeping the
// column order reported by the result.
func (k *Kuzu) convertQueryResult(ctx context.Context, result *kuzu.QueryResult, maxRows int) (*graphs.Result, error) {
	keys := result.GetColumnNames()
	out := &graphs.Result{Keys: keys}

	for result.HasNext() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", graphs.ErrQueryFailed, ctx.Err())
		default:
		}

		if maxRows > 0 && len(out.Rows) >= maxRows {
			return nil, fmt.Errorf("%w: limit is %d", graphs.ErrTooManyRows, maxRows)
		}

		tuple, err := result.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get next tuple: %w", graphs.ErrQueryFailed, err)
		}

		values, err := tuple.GetAsSlice()
		tuple.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read tuple: %w", graphs.ErrQueryFailed, err)
		}

		out.Rows = append(out.Rows, decodeRow(keys, values))
	}

	return out, nil
}
