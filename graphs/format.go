package graphs

import (
	"fmt"
	"sort"
	"strings"
)

// FormatResult renders a result as plain text, one line per row.
func FormatResult(result *Result) string {
	if result == nil || len(result.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, row := range result.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(FormatRow(row))
	}
	return sb.String()
}

// FormatRow renders a row as comma separated "key: value" pairs.
func FormatRow(row Row) string {
	parts := make([]string, len(row.Values))
	for i, value := range row.Values {
		key := ""
		if i < len(row.Keys) {
			key = row.Keys[i]
		}
		parts[i] = key + ": " + FormatValue(value)
	}
	return strings.Join(parts, ", ")
}

// FormatValue renders a single result value using a Cypher-like notation.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case Node:
		return formatNode(v)
	case *Node:
		if v == nil {
			return "null"
		}
		return formatNode(*v)
	case Relationship:
		return formatRelationship(v)
	case Path:
		return formatPath(v)
	case string:
		return fmt.Sprintf("%q", v)
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = FormatValue(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		return formatProperties(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNode(n Node) string {
	var sb strings.Builder
	sb.WriteString("(")
	for _, label := range n.Labels {
		sb.WriteString(":")
		sb.WriteString(label)
	}
	if len(n.Properties) > 0 {
		if len(n.Labels) > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(formatProperties(n.Properties))
	}
	sb.WriteString(")")
	return sb.String()
}

func formatRelationship(r Relationship) string {
	var sb strings.Builder
	sb.WriteString("[:")
	sb.WriteString(r.Type)
	if len(r.Properties) > 0 {
		sb.WriteString(" ")
		sb.WriteString(formatProperties(r.Properties))
	}
	sb.WriteString("]")
	return sb.String()
}

func formatPath(p Path) string {
	var sb strings.Builder
	for i, n := range p.Nodes {
		if i > 0 {
			rel := "-"
			if i-1 < len(p.Relationships) {
				rel = "-" + formatRelationship(p.Relationships[i-1]) + "-"
			}
			sb.WriteString(rel)
		}
		sb.WriteString(formatNode(n))
	}
	return sb.String()
}

// formatProperties renders properties with sorted keys so output is stable.
func formatProperties(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + FormatValue(props[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
