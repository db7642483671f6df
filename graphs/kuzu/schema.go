package kuzu

import (
	"context"
	"fmt"

	"github.com/meetupgraph/meetupgraph/graphs"
)

const (
	// PersonTable holds one node per lower-cased attendee name.
	PersonTable = "Person"
	// MetTable holds one relationship per unordered pair of people.
	MetTable = "MET"
)

var ErrSchemaMissing = fmt.Errorf("kuzu schema is incomplete")

var schemaStatements = []string{
	fmt.Sprintf("CREATE NODE TABLE IF NOT EXISTS %s(%s STRING, PRIMARY KEY(%s))",
		PersonTable, graphs.NameProperty, graphs.NameProperty),
	fmt.Sprintf("CREATE REL TABLE IF NOT EXISTS %s(FROM %s TO %s)",
		MetTable, PersonTable, PersonTable),
}

// ensureSchema creates the node and relationship tables.
func (k *Kuzu) ensureSchema(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, stmt := range schemaStatements {
		if _, err := k.query(ctx, stmt, nil, graphs.NewOptions()); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// TableNames lists every table in the database.
func (k *Kuzu) TableNames(ctx context.Context) ([]string, error) {
	result, err := k.Query(ctx, "CALL show_tables() RETURN name", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if name, ok := row.Values[0].(string); ok {
			names = append(names, name)
		}
	}

	return names, nil
}

// ValidateSchema checks that the Person and MET tables exist.
func (k *Kuzu) ValidateSchema(ctx context.Context) error {
	names, err := k.TableNames(ctx)
	if err != nil {
		return err
	}

	found := make(map[string]bool, len(names))
	for _, name := range names {
		found[name] = true
	}

	for _, table := range []string{PersonTable, MetTable} {
		if !found[table] {
			return fmt.Errorf("%w: table %s not found", ErrSchemaMissing, table)
		}
	}

	return nil
}
