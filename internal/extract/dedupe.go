package extract

import "sort"

// dedupe orders candidates best-first and removes exact duplicates.
// Ordering is score descending, then start, end and value ascending so
// equal-scored candidates resolve deterministically. Duplicates share
// an identical (value, start, end) key; the highest-scored instance
// survives. The operation is idempotent.
func dedupe(cands []Candidate) []Candidate {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Value < b.Value
	})

	type key struct {
		value      string
		start, end int
	}
	seen := make(map[key]bool, len(sorted))
	out := sorted[:0]
	for _, c := range sorted {
		k := key{c.Value, c.Start, c.End}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}
