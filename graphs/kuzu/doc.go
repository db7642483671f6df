// Package kuzu provides a graph store implementation for KuzuDB.
//
// KuzuDB is an embedded graph database, so no server is required. The store
// runs in memory or on disk and keeps people in a Person node table keyed by
// their lower-cased name, connected through a MET relationship table. Both
// tables are created when the store is opened.
//
// A single connection is shared by all callers and access to it is
// serialized. Group merges run inside an explicit transaction so a failed
// merge leaves no partial pairs behind.
//
// Example usage:
//
//	store, err := kuzu.NewKuzu(
//		kuzu.WithInMemory(true),
//		kuzu.WithAllowDangerousRequests(true),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.MergeGroup(ctx, []string{"Alice", "Bob", "Carol"}); err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := store.Query(ctx,
//		"MATCH (p)-[:MET]-(q) WHERE p.name = $name RETURN p, q",
//		map[string]any{"name": "bob"})
//
// Security Note:
// Query runs arbitrary Cypher, including writes. Opening a store therefore
// requires WithAllowDangerousRequests(true).
package kuzu
