package neo4j

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"go.uber.org/zap"

	"github.com/meetupgraph/meetupgraph/graphs"
)

const (
	mergeGroupQuery = "UNWIND $names AS n1 UNWIND $names AS n2 WITH n1,n2 WHERE n1<>n2 " +
		"MERGE (p1 {name: toLower(n1)}) MERGE (p2 {name: toLower(n2)}) MERGE (p1)-[:MET]-(p2)"
	deleteAllQuery   = "MATCH (n) DETACH DELETE n"
	healthCheckQuery = "RETURN 1 AS health_check"
)

var (
	ErrInvalidFetchSize      = errors.New("fetch size must be positive or FetchAll")
	ErrInvalidMaxConnections = errors.New("max connections must be positive")
	ErrMissingConnectionURL  = errors.New("connection URL is required")
)

// Store is a Neo4j graph store implementation.
type Store struct {
	driver neo4j.DriverWithContext
	opts   *options
}

var _ graphs.GraphStore = (*Store)(nil)

// New creates a new Neo4j graph store with the given options.
func New(ctx context.Context, opts ...Option) (*Store, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if err := validateOptions(options); err != nil {
		return nil, err
	}

	driver, err := neo4j.NewDriverWithContext(
		options.connectionURL,
		neo4j.BasicAuth(options.username, options.password, ""),
		func(c *config.Config) {
			c.MaxConnectionPoolSize = options.maxConnections
			c.ConnectionAcquisitionTimeout = options.acquisitionTimeout
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("%w: failed to connect to Neo4j: %w", graphs.ErrQueryFailed, err)
	}

	options.logger.Info("connected to neo4j",
		zap.String("uri", options.connectionURL),
		zap.String("database", options.database),
		zap.Int("max_connections", options.maxConnections))

	return &Store{
		driver: driver,
		opts:   options,
	}, nil
}

// Close closes the Neo4j driver connection.
func (s *Store) Close() error {
	return s.driver.Close(context.Background())
}

// Query runs a read query and drains every record before returning.
func (s *Store) Query(
	ctx context.Context,
	query string,
	params map[string]any,
	options ...graphs.Option,
) (*graphs.Result, error) {
	return s.run(ctx, neo4j.AccessModeRead, query, params, graphs.NewOptions(options...))
}

// MergeGroup merges a MET relationship between every pair of names.
func (s *Store) MergeGroup(ctx context.Context, names []string) error {
	if len(names) < 2 {
		return nil
	}

	_, err := s.run(ctx, neo4j.AccessModeWrite, mergeGroupQuery, map[string]any{"names": names}, graphs.NewOptions())
	if err != nil {
		return err
	}

	s.opts.logger.Debug("merged group", zap.Int("size", len(names)))
	return nil
}

// DeleteAll removes every node and relationship from the database.
func (s *Store) DeleteAll(ctx context.Context) error {
	_, err := s.run(ctx, neo4j.AccessModeWrite, deleteAllQuery, nil, graphs.NewOptions())
	if err != nil {
		return err
	}

	s.opts.logger.Info("deleted all nodes", zap.String("database", s.opts.database))
	return nil
}

// HealthCheck verifies connectivity and runs a trivial query.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("%w: %w", graphs.ErrQueryFailed, err)
	}

	_, err := s.Query(ctx, healthCheckQuery, nil)
	return err
}

func (s *Store) run(
	ctx context.Context,
	mode neo4j.AccessMode,
	query string,
	params map[string]any,
	qopts *graphs.Options,
) (*graphs.Result, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.opts.database,
		AccessMode:   mode,
		FetchSize:    s.opts.fetchSize,
	})
	defer session.Close(ctx)

	var txConfig []func(*neo4j.TransactionConfig)
	if qopts.Timeout > 0 {
		txConfig = append(txConfig, neo4j.WithTxTimeout(qopts.Timeout))
	}

	result, err := session.Run(ctx, query, params, txConfig...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", graphs.ErrQueryFailed, err)
	}

	keys, err := result.Keys()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", graphs.ErrQueryFailed, err)
	}

	out := &graphs.Result{Keys: keys}
	for result.Next(ctx) {
		if qopts.MaxRows > 0 && len(out.Rows) >= qopts.MaxRows {
			return nil, fmt.Errorf("%w: limit is %d", graphs.ErrTooManyRows, qopts.MaxRows)
		}
		out.Rows = append(out.Rows, decodeRecord(result.Record()))
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", graphs.ErrQueryFailed, err)
	}

	s.opts.logger.Debug("query completed",
		zap.Int("rows", len(out.Rows)),
		zap.Strings("keys", keys))

	return out, nil
}

// validateOptions validates the provided options.
func validateOptions(opts *options) error {
	if opts.connectionURL == "" {
		return ErrMissingConnectionURL
	}

	if opts.fetchSize == 0 || opts.fetchSize < FetchAll {
		return ErrInvalidFetchSize
	}

	if opts.maxConnections <= 0 {
		return ErrInvalidMaxConnections
	}

	return nil
}
