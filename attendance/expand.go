package attendance

import "strings"

// Pair is an unordered pair of lower-cased attendee names.
type Pair struct {
	A, B string
}

// Expand returns one pair for every two attendees of the record, in row
// order. Records with fewer than two attendees yield no pairs.
func Expand(rec Record) []Pair {
	return ExpandNames(rec.Attendees)
}

// ExpandNames returns the C(k,2) pairs of k names. Names are lower-cased and
// two names that become equal never form a pair.
func ExpandNames(names []string) []Pair {
	if len(names) < 2 {
		return nil
	}

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	pairs := make([]Pair, 0, len(names)*(len(names)-1)/2)
	for i := 0; i < len(lowered); i++ {
		for j := i + 1; j < len(lowered); j++ {
			if lowered[i] == lowered[j] {
				continue
			}
			pairs = append(pairs, Pair{A: lowered[i], B: lowered[j]})
		}
	}

	return pairs
}
