// Package neo4j implements graphs.GraphStore on top of a Neo4j server using
// the official Bolt driver.
//
// People are stored as nodes keyed by a lower-cased name property and
// connected by undirected MET relationships. Every query result is drained
// before it is returned and decoded into the store-neutral graphs types, so
// callers never see driver records.
//
// The driver keeps a bounded connection pool; sessions block until a
// connection is available or the acquisition timeout expires.
//
// Basic usage:
//
//	store, err := neo4j.New(ctx,
//		neo4j.WithConnectionURL("bolt://localhost:7687"),
//		neo4j.WithCredentials("neo4j", "password"),
//		neo4j.WithDatabase("meetups"),
//		neo4j.WithMaxConnections(10),
//	)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	err = store.MergeGroup(ctx, []string{"Alice", "Bob", "Carol"})
//	result, err := store.Query(ctx, "MATCH (p)-[:MET]-(q) WHERE p.name = $name RETURN p, q",
//		map[string]any{"name": "bob"})
package neo4j
