// Package graphs defines the contract between meetupgraph and the property
// graph stores holding Person nodes and MET relationships.
//
// Store adapters (see the neo4j and kuzu subpackages) decode their native
// result types into the store-neutral Node, Relationship and Path values
// carried by Row. Code that only needs node identities can therefore work on
// arbitrary, user-submitted queries without knowing column names or types:
//
//	result, err := store.Query(ctx, "MATCH (p)-[:MET]-(q) RETURN p, q", nil)
//	if err != nil {
//		return err
//	}
//	groups, err := graphs.NodeGroups(result)
//
// NodeGroups fails with a *MissingPropertyError as soon as a node without a
// "name" property is encountered.
package graphs
