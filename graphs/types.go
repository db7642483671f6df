package graphs

// NameProperty is the node property holding a person's identity.
const NameProperty = "name"

// Node is a store-neutral graph node decoded from a query result.
type Node struct {
	// ID is the store-assigned identifier of the node.
	ID string
	// Labels lists the labels (or table name) attached to the node.
	Labels []string
	// Properties holds the node's key-value properties.
	Properties map[string]any
}

// Name returns the node's name property when it is a string.
func (n Node) Name() (string, bool) {
	v, ok := n.Properties[NameProperty]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Relationship is a store-neutral relationship decoded from a query result.
type Relationship struct {
	ID         string
	StartID    string
	EndID      string
	Type       string
	Properties map[string]any
}

// Path is an alternating sequence of nodes and relationships.
type Path struct {
	Nodes         []Node
	Relationships []Relationship
}

// Row is one record of a query result. Keys and Values are parallel and keep
// the column order reported by the store.
type Row struct {
	Keys   []string
	Values []any
}

// Get returns the value of the column with the given key.
func (r Row) Get(key string) (any, bool) {
	for i, k := range r.Keys {
		if k == key && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	return len(r.Values)
}

// Result is a fully drained query result.
type Result struct {
	Keys []string
	Rows []Row
}
