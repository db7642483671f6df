package kuzu

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const mergePairQuery = "MERGE (a:Person {name: $a}) MERGE (b:Person {name: $b}) MERGE (a)-[:MET]->(b)"

// MergeGroup merges a MET relationship between every pair of names in a
// single transaction. Each relationship is stored once, directed from the
// lexically smaller name, so the pair stays unique regardless of input order.
func (k *Kuzu) MergeGroup(ctx context.Context, names []string) error {
	pairs := normalizedPairs(names)
	if len(pairs) == 0 {
		return nil
	}

	err := k.RunInTransaction(ctx, func(tx *Transaction) error {
		for _, p := range pairs {
			if _, err := tx.Query(mergePairQuery, map[string]any{"a": p[0], "b": p[1]}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	k.options.logger.Debug("merged group",
		zap.Int("size", len(names)),
		zap.Int("pairs", len(pairs)))
	return nil
}

// normalizedPairs lower-cases names and returns each distinct unordered pair
// once, smaller name first. Names equal after lower-casing never pair.
func normalizedPairs(names []string) [][2]string {
	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	seen := make(map[[2]string]bool)
	var pairs [][2]string
	for i := 0; i < len(lowered); i++ {
		for j := i + 1; j < len(lowered); j++ {
			a, b := lowered[i], lowered[j]
			if a == b {
				continue
			}
			if b < a {
				a, b = b, a
			}

			p := [2]string{a, b}
			if seen[p] {
				continue
			}
			seen[p] = true
			pairs = append(pairs, p)
		}
	}

	return pairs
}
