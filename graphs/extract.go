package graphs

import (
	"fmt"
	"strings"
)

// MissingPropertyError reports a node that lacks the property used as its
// identity.
type MissingPropertyError struct {
	Column   string
	Property string
	Labels   []string
}

func (e *MissingPropertyError) Error() string {
	labels := ""
	if len(e.Labels) > 0 {
		labels = ":" + strings.Join(e.Labels, ":")
	}
	return fmt.Sprintf("node (%s) in column %q has no %q property", labels, e.Column, e.Property)
}

// NodeNames returns the name of every node value in the row, in column order.
// Values that are not nodes are skipped. A node without a string name fails
// the whole row.
func NodeNames(row Row) ([]string, error) {
	names := make([]string, 0, len(row.Values))
	for i, value := range row.Values {
		node, ok := asNode(value)
		if !ok {
			continue
		}

		name, ok := node.Name()
		if !ok {
			column := ""
			if i < len(row.Keys) {
				column = row.Keys[i]
			}
			return nil, &MissingPropertyError{
				Column:   column,
				Property: NameProperty,
				Labels:   node.Labels,
			}
		}
		names = append(names, name)
	}

	return names, nil
}

// NodeGroups applies NodeNames to every row of the result and returns one
// group per row. The first failing row aborts the extraction.
func NodeGroups(result *Result) ([][]string, error) {
	if result == nil {
		return nil, nil
	}

	groups := make([][]string, 0, len(result.Rows))
	for i, row := range result.Rows {
		names, err := NodeNames(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		groups = append(groups, names)
	}

	return groups, nil
}

func asNode(value any) (Node, bool) {
	switch v := value.(type) {
	case Node:
		return v, true
	case *Node:
		if v == nil {
			return Node{}, false
		}
		return *v, true
	default:
		return Node{}, false
	}
}
