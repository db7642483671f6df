package kuzu

import (
	"fmt"

	"github.com/kuzudb/go-kuzu"

	"github.com/meetupgraph/meetupgraph/graphs"
)

// decodeRow pairs tuple values with the result's column names and converts
// KuzuDB graph values into their graphs equivalents.
func decodeRow(keys []string, values []any) graphs.Row {
	decoded := make([]any, len(values))
	for i, v := range values {
		decoded[i] = decodeValue(v)
	}

	return graphs.Row{
		Keys:   keys,
		Values: decoded,
	}
}

func decodeValue(value any) any {
	switch v := value.(type) {
	case kuzu.Node:
		return decodeNode(v)
	case kuzu.Relationship:
		return decodeRelationship(v)
	case kuzu.RecursiveRelationship:
		path := graphs.Path{
			Nodes:         make([]graphs.Node, len(v.Nodes)),
			Relationships: make([]graphs.Relationship, len(v.Relationships)),
		}
		for i, n := range v.Nodes {
			path.Nodes[i] = decodeNode(n)
		}
		for i, r := range v.Relationships {
			path.Relationships[i] = decodeRelationship(r)
		}
		return path
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = decodeValue(item)
		}
		return items
	case map[string]any:
		return decodeProperties(v)
	default:
		return v
	}
}

func decodeNode(n kuzu.Node) graphs.Node {
	node := graphs.Node{
		ID:         internalID(n.ID),
		Properties: decodeProperties(n.Properties),
	}
	if n.Label != "" {
		node.Labels = []string{n.Label}
	}
	return node
}

func decodeRelationship(r kuzu.Relationship) graphs.Relationship {
	return graphs.Relationship{
		StartID:    internalID(r.SourceID),
		EndID:      internalID(r.DestinationID),
		Type:       r.Label,
		Properties: decodeProperties(r.Properties),
	}
}

func decodeProperties(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}

	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = decodeValue(v)
	}
	return out
}

func internalID(id kuzu.InternalID) string {
	return fmt.Sprintf("%d:%d", id.TableID, id.Offset)
}
