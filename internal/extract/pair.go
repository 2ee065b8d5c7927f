package extract

import "unicode/utf8"

// pairScore ranks a surviving (track, code) combination. Higher sum
// wins; on ties the conventional order (track printed before code)
// wins; closer spans break remaining ties.
type pairScore struct {
	sum        int
	orderBonus int
	negGap     int
}

func (p pairScore) better(o pairScore) bool {
	if p.sum != o.sum {
		return p.sum > o.sum
	}
	if p.orderBonus != o.orderBonus {
		return p.orderBonus > o.orderBonus
	}
	return p.negGap > o.negGap
}

// gap is the distance, in characters, between the nearer edges of two
// non-overlapping spans within text.
func gap(text string, t, c Candidate) int {
	if t.End <= c.Start {
		return utf8.RuneCountInString(text[t.End:c.Start])
	}
	return utf8.RuneCountInString(text[c.End:t.Start])
}

// bestPair selects the winning (track, code) pair from deduplicated
// candidate lists over text, or reports none when every combination
// overlaps or sits too far apart.
func bestPair(text string, tracks, codes []Candidate) (track, code string, ok bool) {
	var best pairScore
	for _, t := range tracks {
		for _, c := range codes {
			if t.overlaps(c) {
				continue
			}
			g := gap(text, t, c)
			if g > maxPairGap {
				continue
			}
			score := pairScore{sum: t.Score + c.Score, negGap: -g}
			if t.Start <= c.Start {
				score.orderBonus = 1
			}
			if !ok || score.better(best) {
				best = score
				track, code = t.Value, c.Value
				ok = true
			}
		}
	}
	return track, code, ok
}
