package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/meetupgraph/meetupgraph/graphs"
	"github.com/meetupgraph/meetupgraph/graphs/kuzu"
	"github.com/meetupgraph/meetupgraph/graphs/neo4j"
)

// openStore connects to the graph store selected by STORE.
func openStore(ctx context.Context, cfg *Config, logger *zap.Logger) (graphs.GraphStore, error) {
	switch cfg.Store {
	case storeKuzu:
		opts := []kuzu.Option{
			kuzu.WithAllowDangerousRequests(true),
			kuzu.WithTimeout(cfg.QueryTimeout),
			kuzu.WithLogger(logger.Named("kuzu")),
		}
		if cfg.KuzuPath == "" {
			opts = append(opts, kuzu.WithInMemory(true))
		} else {
			opts = append(opts, kuzu.WithDatabasePath(cfg.KuzuPath))
		}
		return kuzu.NewKuzu(opts...)
	case storeNeo4j:
		return neo4j.New(ctx,
			neo4j.WithConnectionURL(cfg.Neo4jURI),
			neo4j.WithCredentials(cfg.Neo4jUsername, cfg.Neo4jPassword),
			neo4j.WithDatabase(cfg.Neo4jDatabase),
			neo4j.WithFetchSize(cfg.Neo4jFetchSize),
			neo4j.WithMaxConnections(cfg.Neo4jMaxConnections),
			neo4j.WithLogger(logger.Named("neo4j")),
		)
	default:
		return nil, fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, cfg.Store)
	}
}
