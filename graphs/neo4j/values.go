package neo4j

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/meetupgraph/meetupgraph/graphs"
)

// decodeRecord converts a driver record into a store-neutral row, keeping the
// column order of the record.
func decodeRecord(record *neo4j.Record) graphs.Row {
	if record == nil {
		return graphs.Row{}
	}

	values := make([]any, len(record.Values))
	for i, v := range record.Values {
		values[i] = decodeValue(v)
	}

	return graphs.Row{
		Keys:   append([]string(nil), record.Keys...),
		Values: values,
	}
}

func decodeValue(value any) any {
	switch v := value.(type) {
	case neo4j.Node:
		return decodeNode(v)
	case neo4j.Relationship:
		return decodeRelationship(v)
	case neo4j.Path:
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

func decodeNode(n neo4j.Node) graphs.Node {
	return graphs.Node{
		ID:         n.ElementId,
		Labels:     n.Labels,
		Properties: decodeProperties(n.Props),
	}
}

func decodeRelationship(r neo4j.Relationship) graphs.Relationship {
	return graphs.Relationship{
		ID:         r.ElementId,
		StartID:    r.StartElementId,
		EndID:      r.EndElementId,
		Type:       r.Type,
		Properties: decodeProperties(r.Props),
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
